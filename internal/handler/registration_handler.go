package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"cardregistry/internal/service"

	"github.com/rs/zerolog"
)

type Registrar interface {
	Register(ctx context.Context, req service.RegistrationRequest) (*service.RegistrationResult, error)
}

// formView is the state of the three inputs and the status label.
type formView struct {
	Surname    string
	GivenName  string
	CardNumber string
	Status     string
	Failed     bool
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Student cards</title></head>
<body>
<form method="post" action="/register">
  <label>Surname <input type="text" name="nom" value="{{.Surname}}"></label><br>
  <label>Given name <input type="text" name="prenom" value="{{.GivenName}}"></label><br>
  <label>Card number <input type="text" name="numero" value="{{.CardNumber}}"></label><br>
  <button type="submit">Add</button>
</form>
<p id="result"{{if .Failed}} class="error"{{end}}>{{.Status}}</p>
</body>
</html>
`))

type RegistrationHandler struct {
	registrar Registrar
	log       zerolog.Logger
}

func NewRegistrationHandler(registrar Registrar, log zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrar: registrar, log: log}
}

// ShowForm renders the empty form.
func (h *RegistrationHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, formView{})
}

// Register submits the form values and renders the form again with the
// outcome. Inputs are cleared on success and kept on failure.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	view := formView{
		Surname:    r.PostFormValue("nom"),
		GivenName:  r.PostFormValue("prenom"),
		CardNumber: r.PostFormValue("numero"),
	}

	result, err := h.registrar.Register(r.Context(), service.RegistrationRequest{
		Surname:    view.Surname,
		GivenName:  view.GivenName,
		CardNumber: view.CardNumber,
	})
	if err != nil {
		view.Status = err.Error()
		view.Failed = true
		h.render(w, statusFor(err), view)
		return
	}

	view.Status = result.Message
	if result.ClearInputs {
		view.Surname, view.GivenName, view.CardNumber = "", "", ""
	}
	h.render(w, http.StatusOK, view)
}

func (h *RegistrationHandler) render(w http.ResponseWriter, status int, view formView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, view); err != nil {
		h.log.Error().Err(err).Msg("render form")
	}
}

func statusFor(err error) int {
	var regErr *service.RegistrationError
	if !errors.As(err, &regErr) {
		return http.StatusInternalServerError
	}
	switch regErr.Kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConstraint:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
