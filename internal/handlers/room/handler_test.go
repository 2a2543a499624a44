package room_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "terras/infras/otel/mocks"
	"terras/internal/domains/room/model/dto"
	serviceMocks "terras/internal/domains/room/service/mocks"
	"terras/internal/handlers/room"
)

func multipartForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestCreateRoom_Capacity(t *testing.T) {
	t.Run("valid capacity is parsed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := serviceMocks.NewMockRoom(ctrl)
		handler := room.New(svc, otelMocks.NewOtel())

		svc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req dto.CreateRoomRequest) error {
				assert.Equal(t, 12, req.Capacity)

				return nil
			})

		body, contentType := multipartForm(t, map[string]string{
			"name":     "Aster",
			"capacity": "12",
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/rooms/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.CreateRoom(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("non numeric capacity is a bad request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := serviceMocks.NewMockRoom(ctrl)
		handler := room.New(svc, otelMocks.NewOtel())

		body, contentType := multipartForm(t, map[string]string{
			"name":     "Aster",
			"capacity": "lots",
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/rooms/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.CreateRoom(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "capacity must be an integer")
	})
}

func TestUpdateRoom_Capacity(t *testing.T) {
	t.Run("non numeric capacity is a bad request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := serviceMocks.NewMockRoom(ctrl)
		handler := room.New(svc, otelMocks.NewOtel())

		body, contentType := multipartForm(t, map[string]string{
			"capacity": "9.5",
		})

		req := httptest.NewRequest(http.MethodPatch, "/v1/rooms/room-1", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.UpdateRoom(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "capacity must be an integer")
	})
}
