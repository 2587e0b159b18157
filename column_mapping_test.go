package parquetrecord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBestEffortMatch_FoldsCaseAndSeparators(t *testing.T) {
	group := &Schema{Name: ""}
	group.addChild(&Schema{Name: "user_id"})

	fd := FieldDesc{LogicalName: "UserID", WireName: "UserID"}
	col, err := bestEffortMatch(group, fd, nil)
	require.Nil(t, err)
	require.NotNil(t, col)
	require.Equal(t, "user_id", col.Name)
}

func TestBestEffortMatch_AmbiguousRejected(t *testing.T) {
	group := &Schema{Name: ""}
	group.addChild(&Schema{Name: "user_id"})
	group.addChild(&Schema{Name: "UserId"})

	fd := FieldDesc{LogicalName: "UserID", WireName: "UserID"}
	_, err := bestEffortMatch(group, fd, nil)
	require.NotNil(t, err)
	require.Equal(t, TypeMismatch, err.Kind)
}

func TestMatchField_ExactWireNameWins(t *testing.T) {
	group := &Schema{Name: ""}
	group.addChild(&Schema{Name: "custom_name"})

	fd := FieldDesc{LogicalName: "Field", WireName: "custom_name"}
	col, err := matchField(group, fd, DefaultReaderConfig(), nil)
	require.Nil(t, err)
	require.NotNil(t, col)
}
