package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementTypeValid(t *testing.T) {
	for _, mt := range []MovementType{MovementInit, MovementIn, MovementOut, MovementAdjustment} {
		assert.True(t, mt.Valid(), string(mt))
	}
	assert.False(t, MovementType("TRANSFER").Valid())
	assert.False(t, MovementType("out").Valid())
	assert.False(t, MovementType("").Valid())
}

func TestSignedQuantity(t *testing.T) {
	// OUT quantities are stored positive and subtract during aggregation
	assert.Equal(t, -3, MovementOut.SignedQuantity(3))

	// Everything else contributes as stored, including pre-signed adjustments
	assert.Equal(t, 10, MovementInit.SignedQuantity(10))
	assert.Equal(t, 20, MovementIn.SignedQuantity(20))
	assert.Equal(t, -2, MovementAdjustment.SignedQuantity(-2))
	assert.Equal(t, 4, MovementAdjustment.SignedQuantity(4))
}
