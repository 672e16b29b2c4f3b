package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cardregistry/internal/handler"
	"cardregistry/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, req service.RegistrationRequest) (*service.RegistrationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegistrationResult), args.Error(1)
}

func postForm(h http.HandlerFunc, values url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w.Result()
}

func TestShowForm(t *testing.T) {
	h := handler.NewRegistrationHandler(new(MockRegistrar), zerolog.Nop())

	w := httptest.NewRecorder()
	h.ShowForm(w, httptest.NewRequest(http.MethodGet, "/", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `name="nom"`)
	assert.Contains(t, string(body), `name="prenom"`)
	assert.Contains(t, string(body), `name="numero"`)
	assert.Contains(t, string(body), `<button type="submit">`)
}

func TestRegister_Success(t *testing.T) {
	mockService := new(MockRegistrar)
	mockService.On("Register", mock.Anything, service.RegistrationRequest{
		Surname: "Durand", GivenName: "Alice", CardNumber: "CARD42",
	}).Return(&service.RegistrationResult{
		Message:     "Success: student Durand Alice added with card number CARD42",
		ClearInputs: true,
	}, nil)

	h := handler.NewRegistrationHandler(mockService, zerolog.Nop())
	resp := postForm(h.Register, url.Values{"nom": {"Durand"}, "prenom": {"Alice"}, "numero": {"CARD42"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Success: student Durand Alice added with card number CARD42")
	assert.Contains(t, string(body), `name="nom" value=""`)
	assert.Contains(t, string(body), `name="numero" value=""`)
	mockService.AssertExpectations(t)
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"Validation", &service.RegistrationError{Kind: service.KindValidation, Message: "Error: all fields must be filled in!"}, http.StatusBadRequest},
		{"Constraint", &service.RegistrationError{Kind: service.KindConstraint, Message: "Error while adding: duplicated key"}, http.StatusConflict},
		{"Connection", &service.RegistrationError{Kind: service.KindConnection, Message: "Error while adding: database is locked"}, http.StatusServiceUnavailable},
		{"Unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockRegistrar)
			mockService.On("Register", mock.Anything, mock.AnythingOfType("service.RegistrationRequest")).Return(nil, tt.err)

			h := handler.NewRegistrationHandler(mockService, zerolog.Nop())
			resp := postForm(h.Register, url.Values{"nom": {"Durand"}, "prenom": {"Alice"}, "numero": {"CARD42"}})

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.err.Error())
			// inputs are kept for another attempt
			assert.Contains(t, string(body), `name="nom" value="Durand"`)
			assert.Contains(t, string(body), `name="numero" value="CARD42"`)
		})
	}
}

func TestRegister_EscapesInput(t *testing.T) {
	mockService := new(MockRegistrar)
	mockService.On("Register", mock.Anything, mock.Anything).
		Return(nil, &service.RegistrationError{Kind: service.KindValidation, Message: "Error: all fields must be filled in!"})

	h := handler.NewRegistrationHandler(mockService, zerolog.Nop())
	resp := postForm(h.Register, url.Values{"nom": {`"><script>x</script>`}})

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "<script>")
}
