package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/logger"
)

func setupTestProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(setupTestStorage(t), logger.Discard().Logger)
}

func TestProcessor_SaveDataURI(t *testing.T) {
	p := setupTestProcessor(t)
	data := testPNG(t, 120, 80)

	stored, err := p.SaveDataURI(dataURI("image/png", data))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.BlurHash)
	assert.True(t, p.Storage().Exists(stored.Name))

	saved, err := p.Storage().Get(stored.Name)
	require.NoError(t, err)
	assert.Equal(t, data, saved)

	p.Remove(stored.Name)
	assert.False(t, p.Storage().Exists(stored.Name))
	p.Remove("")
}

func TestProcessor_SaveDataURI_ClientError(t *testing.T) {
	p := setupTestProcessor(t)

	_, err := p.SaveDataURI("not a data uri")
	assert.True(t, IsClientError(err))
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(testPNG(t, 10, 10))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	_, err = ComputeBlurHash([]byte("nope"))
	assert.Error(t, err)
}

func TestResizeForBlurHash(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 32, 32))
	assert.Same(t, image.Image(small), resizeForBlurHash(small))

	wide := resizeForBlurHash(image.NewRGBA(image.Rect(0, 0, 640, 160)))
	assert.Equal(t, 64, wide.Bounds().Dx())
	assert.Equal(t, 16, wide.Bounds().Dy())

	tall := resizeForBlurHash(image.NewRGBA(image.Rect(0, 0, 10, 6400)))
	assert.Equal(t, 1, tall.Bounds().Dx())
	assert.Equal(t, 64, tall.Bounds().Dy())
}
