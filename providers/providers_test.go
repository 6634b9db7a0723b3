package providers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartkrishi/smart-krishi-api/logging"
	"github.com/smartkrishi/smart-krishi-api/models"
)

func TestStubClassifierIsFixed(t *testing.T) {
	c := NewStubClassifier()

	for _, crop := range []string{"Wheat", "Tomato", ""} {
		d, err := c.Classify(context.Background(), ImageInput{Crop: crop, Content: []byte{1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, "Leaf Blight", d.DiseaseName)
		assert.Equal(t, 0.87, d.Probability)
		assert.Equal(t, StubPesticide, d.Pesticide)
	}
}

func TestLogDispatcher(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDispatcher(logging.NewWithOutput(&buf, "info", true))
	n := &models.Notification{ID: primitive.NewObjectID(), UserID: "u1", Type: "mandi", Message: "Onion up 5%"}

	res, err := d.Send(context.Background(), n)

	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, "log", res.Channel)
	assert.Contains(t, buf.String(), n.ID.Hex())
}
