package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"cardregistry/internal/service"
)

type StudentLister interface {
	ListStudents(ctx context.Context, page, limit int) ([]service.StudentRecord, int64, int, error)
}

type StudentHandler struct {
	studentService StudentLister
}

func NewStudentHandler(studentService StudentLister) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	students, totalCount, totalPages, err := h.studentService.ListStudents(r.Context(), page, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data":       students,
		"page":       page,
		"limit":      limit,
		"total":      totalCount,
		"totalPages": totalPages,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
