package subscription

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/patreon"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Subscription(r *http.Request) (json.RawMessage, error) {
	args := m.Called(r)
	if res := args.Get(0); res != nil {
		return res.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный ответ провайдера",
			setupMock: func(m *MockService) {
				m.On("Subscription", mock.Anything).Return(json.RawMessage(`{"data":{"id":"1"}}`), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"data":{"id":"1"}}`,
		},
		{
			name: "нет cookie",
			setupMock: func(m *MockService) {
				m.On("Subscription", mock.Anything).Return(nil, accountcookie.ErrNoAccountData)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"No account data found"}`,
		},
		{
			name: "поврежденная cookie",
			setupMock: func(m *MockService) {
				m.On("Subscription", mock.Anything).
					Return(nil, fmt.Errorf("decode: %w", accountcookie.ErrInvalidAccountData))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Invalid account data"}`,
		},
		{
			name: "ошибка провайдера",
			setupMock: func(m *MockService) {
				m.On("Subscription", mock.Anything).Return(nil, patreon.ErrUpstream)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"Failed to fetch subscription data"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/account/subscription", nil)
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
