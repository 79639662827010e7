package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRunTxRetry_ReintentaUnaVezTrasConflicto(t *testing.T) {
	llamadas := 0
	err := runTxRetry(context.Background(), nil, func(tx *gorm.DB) error {
		llamadas++
		if llamadas == 1 {
			return errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, llamadas, "un conflicto de serialización se reintenta exactamente una vez")
}

func TestRunTxRetry_DobleConflictoDevuelveErrConflicto(t *testing.T) {
	llamadas := 0
	err := runTxRetry(context.Background(), nil, func(tx *gorm.DB) error {
		llamadas++
		return errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")
	})
	assert.ErrorIs(t, err, ErrConflicto)
	assert.Equal(t, 2, llamadas, "tras el segundo conflicto se corta, sin tercer intento")
}

func TestRunTxRetry_ErroresComunesNoSeReintentan(t *testing.T) {
	llamadas := 0
	fallo := errors.New("violates check constraint")
	err := runTxRetry(context.Background(), nil, func(tx *gorm.DB) error {
		llamadas++
		return fallo
	})
	assert.ErrorIs(t, err, fallo)
	assert.Equal(t, 1, llamadas)
}

func TestRunTxRetry_ExitoDirecto(t *testing.T) {
	llamadas := 0
	err := runTxRetry(context.Background(), nil, func(tx *gorm.DB) error {
		llamadas++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, llamadas)
}

func TestEsConflictoSerializacion(t *testing.T) {
	assert.False(t, esConflictoSerializacion(nil))
	assert.False(t, esConflictoSerializacion(errors.New("record not found")))
	assert.True(t, esConflictoSerializacion(errors.New("(SQLSTATE 40001)")))
	assert.True(t, esConflictoSerializacion(errors.New("(SQLSTATE 40P01)")))
}
