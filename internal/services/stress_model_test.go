package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LaibaFaraz/HealMind/internal/domain/entities"
	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStressModel_PredictDefault(t *testing.T) {
	model := DefaultStressModel()

	level, probs := model.Predict(15, 10)
	assert.Equal(t, entities.StressHigh, level)
	assert.InDelta(t, 1.0, probs[0]+probs[1]+probs[2], 1e-9)

	level, _ = model.Predict(90, 80)
	assert.Equal(t, entities.StressLow, level)

	level, _ = model.Predict(50, 40)
	assert.Equal(t, entities.StressMedium, level)
}

func TestLoadStressModel(t *testing.T) {
	model, err := LoadStressModel("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStressModel(), model)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mean": [0, 0], "scale": [1, 1],
		"coef": [[0, 0], [0, 0], [1, 0]],
		"intercept": [0, 0, 0]
	}`), 0o600))

	model, err = LoadStressModel(path)
	require.NoError(t, err)
	level, _ := model.Predict(5, 0)
	assert.Equal(t, entities.StressHigh, level)
}

func TestLoadStressModel_Errors(t *testing.T) {
	_, err := LoadStressModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, apperrors.Is(err, apperrors.ErrStressModel))

	path := filepath.Join(t.TempDir(), "zero.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scale":[0,1]}`), 0o600))
	_, err = LoadStressModel(path)
	assert.True(t, apperrors.Is(err, apperrors.ErrStressModel))
}
