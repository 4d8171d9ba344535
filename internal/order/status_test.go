package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_ForwardOnly(t *testing.T) {
	allowed := [][2]Status{
		{StatusOpen, StatusInKitchen},
		{StatusInKitchen, StatusReady},
		{StatusReady, StatusDelivered},
		{StatusOpen, StatusSettled},
		{StatusInKitchen, StatusSettled},
		{StatusReady, StatusSettled},
		{StatusDelivered, StatusSettled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]Status{
		{StatusOpen, StatusReady},
		{StatusOpen, StatusDelivered},
		{StatusInKitchen, StatusOpen},
		{StatusReady, StatusInKitchen},
		{StatusDelivered, StatusReady},
		{StatusSettled, StatusSettled},
		{StatusSettled, StatusOpen},
		{StatusSettled, StatusDelivered},
	}
	for _, tr := range rejected {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_kitchen")
	require.NoError(t, err)
	assert.Equal(t, StatusInKitchen, st)

	for _, legacy := range []string{"10", "1", "pending", ""} {
		_, err := ParseStatus(legacy)
		assert.Error(t, err, legacy)
	}
	assert.True(t, StatusSettled.Terminal())
	assert.False(t, StatusDelivered.Terminal())
}

func TestModifierIDs_RoundTrip(t *testing.T) {
	s := FormatModifierIDs([]int64{12, 15, 18})
	assert.Equal(t, "12,15,18", s)

	ids, err := ParseModifierIDs(s)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{12, 15, 18}, ids)
}

func TestModifierIDs_Empty(t *testing.T) {
	assert.Equal(t, "", FormatModifierIDs(nil))
	assert.Nil(t, nullableModifiers(nil))

	ids, err := ParseModifierIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = ParseModifierIDs(" 3, ,4 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids)

	_, err = ParseModifierIDs("3,x")
	assert.Error(t, err)
}

func TestOrder_AllReady(t *testing.T) {
	o := &Order{}
	assert.False(t, o.AllReady())

	o.Items = []Item{{Ready: true}, {Ready: false}}
	assert.False(t, o.AllReady())

	o.Items[1].Ready = true
	assert.True(t, o.AllReady())
}
