package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/validation"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	contactsvc "github.com/magabrotheeeer/awfixer-portal/internal/services/contact"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Submit(ctx context.Context, sub models.ContactSubmission, remoteIP string) (*contactsvc.Result, error) {
	args := m.Called(ctx, sub, remoteIP)
	if res := args.Get(0); res != nil {
		return res.(*contactsvc.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{"contactType":"support","targetEmail":"support@awfixer.com","name":"Jane",
	"email":"jane@example.com","message":"My widget is broken.","agree":true}`

func TestHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "заявка принята",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, mock.MatchedBy(func(s models.ContactSubmission) bool {
					return s.ContactType == "support" && s.Agree && s.Message == "My widget is broken."
				}), "192.0.2.1").Return(&contactsvc.Result{
					Success:     true,
					Message:     contactsvc.SuccessMessage,
					ContactType: "support",
					ID:          "id-1",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: fmt.Sprintf(`{"success":true,"message":%q,"contactType":"support","id":"id-1"}`,
				contactsvc.SuccessMessage),
		},
		{
			name:           "некорректный JSON",
			body:           `{"agree":"yes"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "ошибка валидации",
			body: validBody,
			setupMock: func(m *MockService) {
				verr := &validation.Error{}
				verr.Add("message", "must be at least 10 characters")
				m.On("Submit", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("contact.Submit: %w", verr)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"validation failed","fields":{"message":"must be at least 10 characters"}}`,
		},
		{
			name: "капча не пройдена",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, contactsvc.ErrCaptchaFailed).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"captcha verification failed"}`,
		},
		{
			name: "очередь недоступна",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: %v", contactsvc.ErrDelivery, errors.New("channel closed"))).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to send message, please try again later"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
