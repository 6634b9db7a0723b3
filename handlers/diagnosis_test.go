package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartkrishi/smart-krishi-api/handlers"
	"github.com/smartkrishi/smart-krishi-api/models"
	"github.com/smartkrishi/smart-krishi-api/providers"
	"github.com/smartkrishi/smart-krishi-api/testutil"
)

var leafPhoto = []byte{0xff, 0xd8, 0xff, 0xe0, 'l', 'e', 'a', 'f'}

func TestDetectDisease(t *testing.T) {
	store := testutil.NewMemoryStore()
	app := newApp(store)

	status, raw := postForm(t, app, "/api/detect-disease", map[string]string{"userId": "u1", "crop": "Wheat"}, "leaf.jpg", leafPhoto)

	require.Equal(t, http.StatusOK, status, string(raw))
	d := decodeObject(t, raw)
	id, _ := d["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, id, d["diagnosisId"])
	assert.Equal(t, "u1", d["userId"])
	assert.Equal(t, "Wheat", d["crop"])
	assert.Equal(t, providers.StubDisease, d["diseaseName"])
	assert.Equal(t, providers.StubProbability, d["probability"])
	assert.Equal(t, providers.StubRecommendation, d["recommendation"])
	assert.Equal(t, providers.StubPesticide, d["pesticide"])
	assert.Equal(t, "2025-01-02T03:04:05Z", d["date"])
	assert.Equal(t, handlers.ImageBaseURL+"/1735787045_leaf.jpg", d["imageURL"])
	assert.Equal(t, 1, store.Count(models.CropDiagnosisCollection))
}

func TestDetectDiseaseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		image    []byte
		msg      string
	}{
		{name: "missing user", fields: map[string]string{"crop": "Wheat"}, filename: "a.jpg", image: leafPhoto, msg: "userId is required"},
		{name: "missing crop", fields: map[string]string{"userId": "u1"}, filename: "a.jpg", image: leafPhoto, msg: "crop is required"},
		{name: "missing image", fields: map[string]string{"userId": "u1", "crop": "Wheat"}, msg: "image is required"},
		{name: "empty image", fields: map[string]string{"userId": "u1", "crop": "Wheat"}, filename: "a.jpg", image: nil, msg: "Empty image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStore()
			status, raw := postForm(t, newApp(store), "/api/detect-disease", tt.fields, tt.filename, tt.image)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.msg, errorMessage(t, raw))
			assert.Zero(t, store.Count(models.CropDiagnosisCollection))
		})
	}
}

func TestDetectDiseaseClassifierFailure(t *testing.T) {
	store := testutil.NewMemoryStore()
	app := newApp(store, func(d *handlers.Deps) { d.Classifier = failingClassifier{} })

	status, raw := postForm(t, app, "/api/detect-disease", map[string]string{"userId": "u1", "crop": "Rice"}, "a.jpg", leafPhoto)

	assert.Equal(t, http.StatusBadGateway, status)
	assert.True(t, strings.HasPrefix(errorMessage(t, raw), "Classifier error: "))
	assert.Zero(t, store.Count(models.CropDiagnosisCollection))
}

func TestDiagnosisHistoryNewestFirst(t *testing.T) {
	store := testutil.NewMemoryStore()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store.Insert(models.CropDiagnosisCollection, bson.M{"userId": "u1", "crop": "Wheat", "date": base})
	store.Insert(models.CropDiagnosisCollection, bson.M{"userId": "u1", "crop": "Cotton", "date": base.Add(48 * time.Hour)})
	store.Insert(models.CropDiagnosisCollection, bson.M{"userId": "u1", "crop": "Rice", "date": base.Add(24 * time.Hour)})
	store.Insert(models.CropDiagnosisCollection, bson.M{"userId": "u2", "crop": "Maize", "date": base})
	app := newApp(store)

	status, raw := get(t, app, "/api/diagnosis/u1")

	require.Equal(t, http.StatusOK, status)
	list := decodeList(t, raw)
	require.Len(t, list, 3)
	assert.Equal(t, "Cotton", list[0]["crop"])
	assert.Equal(t, "Rice", list[1]["crop"])
	assert.Equal(t, "Wheat", list[2]["crop"])
	assert.Equal(t, "2024-06-03T08:00:00Z", list[0]["date"])
	assert.NotEmpty(t, list[0]["id"])

	status, raw = get(t, app, "/api/diagnosis/nobody")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}
