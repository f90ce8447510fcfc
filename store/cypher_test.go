package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeLiteral_CoversStoredTypes(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, "null"},
		{"plain", "'plain'"},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{0.25, "0.25"},
		{[]string{"a", "b"}, "['a', 'b']"},
	}
	for _, c := range cases {
		got, err := encodeLiteral(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestEncodeLiteral_RejectsUnknownTypes(t *testing.T) {
	_, err := encodeLiteral(map[string]int{"x": 1})
	require.Error(t, err)
}

func TestSubstituteParams(t *testing.T) {
	out, err := substituteParams(
		"MATCH (a:Agent {id: $agent_id}) RETURN a",
		map[string]interface{}{"agent_id": "a-1"})
	require.NoError(t, err)
	require.Equal(t, "MATCH (a:Agent {id: 'a-1'}) RETURN a", out)
}

func TestSubstituteParams_LongestNameFirst(t *testing.T) {
	out, err := substituteParams(
		"RETURN $id, $id_list",
		map[string]interface{}{"id": "x", "id_list": []string{"y"}})
	require.NoError(t, err)
	require.Equal(t, "RETURN 'x', ['y']", out)
}

func TestSubstituteParams_UnreferencedParamFails(t *testing.T) {
	_, err := substituteParams("RETURN 1", map[string]interface{}{"ghost": 1})
	require.Error(t, err)
}

func TestPropsFragment_SortedAndEscaped(t *testing.T) {
	out, err := propsFragment(map[string]interface{}{
		"name":   "o'hana",
		"weight": 0.5,
		"count":  3,
	})
	require.NoError(t, err)
	require.Equal(t, `{count: 3, name: 'o\'hana', weight: 0.5}`, out)
}

func TestParseReply_ThreeElementShape(t *testing.T) {
	reply := []interface{}{
		[]interface{}{"v.id"},
		[]interface{}{
			[]interface{}{"V01"},
			[]interface{}{"V02"},
		},
		[]interface{}{"Query internal execution time: 0.2"},
	}
	rows, err := parseReply(reply)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "V01", rows[0][0])
}

func TestParseReply_WriteOnlyStats(t *testing.T) {
	rows, err := parseReply([]interface{}{[]interface{}{"Nodes created: 1"}})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestParseReply_RejectsNonArray(t *testing.T) {
	_, err := parseReply("OK")
	require.Error(t, err)
}

func TestCoercions(t *testing.T) {
	n, ok := toInt64("17")
	require.True(t, ok)
	require.Equal(t, int64(17), n)

	f, ok := toFloat64(int64(3))
	require.True(t, ok)
	require.Equal(t, 3.0, f)

	f, ok = toFloat64("0.75")
	require.True(t, ok)
	require.Equal(t, 0.75, f)

	require.Equal(t, "", toString(nil))
	require.Equal(t, "V01", toString("V01"))
}
