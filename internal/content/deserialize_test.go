package content

import (
	"testing"

	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserializeJsonValue_Int32(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Age", TypeName: "int32"}
	v, err := DeserializeJsonValue(float64(42), col)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v.Value())
}

func TestDeserializeJsonValue_NullScalar(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Age", TypeName: "int32", Nullable: true}
	v, err := DeserializeJsonValue(nil, col)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestDeserializeJsonValue_Text(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Name", TypeName: "text"}
	v, err := DeserializeJsonValue("Alice", col)
	require.NoError(t, err)
	assert.Equal(t, "Alice", v.Value())
}

func TestDeserializeJsonValue_List(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Tags", TypeName: "list", ElemTypeName: "text"}
	v, err := DeserializeJsonValue([]any{"a", "b"}, col)
	require.NoError(t, err)
	assert.False(t, v.IsNull())
}

func TestDeserializeJsonValue_Struct(t *testing.T) {
	col := edmmodel.TableColumn{
		Name:     "Address",
		TypeName: "struct",
		Fields: []edmmodel.TableColumn{
			{Name: "City", TypeName: "text"},
			{Name: "Zip", TypeName: "text"},
		},
	}
	v, err := DeserializeJsonValue(map[string]any{"City": "Berlin", "Zip": "10115"}, col)
	require.NoError(t, err)
	assert.False(t, v.IsNull())
}

func TestDeserializeJsonValue_StructMissingFieldBecomesNull(t *testing.T) {
	col := edmmodel.TableColumn{
		Name:     "Address",
		TypeName: "struct",
		Fields: []edmmodel.TableColumn{
			{Name: "City", TypeName: "text"},
		},
	}
	v, err := DeserializeJsonValue(map[string]any{}, col)
	require.NoError(t, err)
	assert.False(t, v.IsNull())
}

func TestDeserializeJsonValue_EnumKnownMember(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Status", TypeName: "enum", EnumMembers: []string{"Active", "Inactive"}}
	v, err := DeserializeJsonValue("Active", col)
	require.NoError(t, err)
	assert.Equal(t, "Active", v.Value())
}

func TestDeserializeJsonValue_EnumUnknownFallsBackToText(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Status", TypeName: "enum", EnumMembers: []string{"Active"}}
	v, err := DeserializeJsonValue("SomethingElse", col)
	require.NoError(t, err)
	assert.Equal(t, "SomethingElse", v.Value())
}

func TestDeserializeJsonValue_WrongTypeForListErrors(t *testing.T) {
	col := edmmodel.TableColumn{Name: "Tags", TypeName: "list", ElemTypeName: "text"}
	_, err := DeserializeJsonValue("not-an-array", col)
	require.Error(t, err)
}
