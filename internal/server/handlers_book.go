package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookvault/internal/app"
	"bookvault/internal/domain"
	"bookvault/internal/util"
	"bookvault/internal/validation"
)

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		s.createBook(w, r, user)
	case http.MethodGet:
		s.listBooks(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in validation.BookInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if msg := validation.ValidateBook(in); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	book, err := s.app.CreateBook(user, in)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("create book", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return
	}
	s.audit(r, "book.create", "success", "book_id", book.ID, "user_id", book.UserID)
	writeMessage(w, http.StatusCreated, msgBookAdded)
}

// listBooks serves both name search and visible-book pagination. A non-empty
// bookName query switches to search and ignores page/limit.
func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if name := strings.TrimSpace(query.Get("bookName")); name != "" {
		books, err := s.app.SearchBooks(name)
		if err != nil {
			util.LoggerFromContext(r.Context()).Error("search books", "err", err)
			writeMessage(w, http.StatusInternalServerError, msgGenericError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": msgBookFetched,
			"books":   books,
		})
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	books, _, err := s.app.ListBooks(page, limit)
	if err != nil {
		var pre *app.PageRangeError
		if errors.As(err, &pre) {
			writeMessage(w, http.StatusBadRequest, pre.Error())
			return
		}
		util.LoggerFromContext(r.Context()).Error("list books", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  msgBookFetched,
		"bookList": books,
	})
}

func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request, _ domain.User) {
	idRaw := strings.TrimPrefix(r.URL.Path, "/book/")
	id, err := strconv.ParseUint(idRaw, 10, 32)
	if err != nil || id == 0 {
		writeMessage(w, http.StatusNotFound, msgBookNotFound)
		return
	}
	bookID := uint(id)

	switch r.Method {
	case http.MethodGet:
		s.bookDetail(w, r, bookID)
	case http.MethodPut:
		s.updateBook(w, r, bookID)
	case http.MethodDelete:
		s.deleteBook(w, r, bookID)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) bookDetail(w http.ResponseWriter, r *http.Request, id uint) {
	detail, err := s.app.BookDetail(id)
	if err != nil {
		if errors.Is(err, app.ErrBookNotFound) {
			writeMessage(w, http.StatusNotFound, msgBookNotFound)
			return
		}
		util.LoggerFromContext(r.Context()).Error("book detail", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     msgBookFetched,
		"bookDetails": detail,
	})
}

type updateBookRequest struct {
	UserID       uint    `json:"userId"`
	BookName     string  `json:"bookName"`
	BookDesc     string  `json:"bookDesc"`
	NoOfPages    int     `json:"noOfPages"`
	BookAuthor   string  `json:"bookAuthor"`
	BookCategory string  `json:"bookCategory"`
	BookPrice    float64 `json:"bookPrice"`
	ReleasedYear int     `json:"releasedYear"`
	Status       *bool   `json:"status"`
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request, id uint) {
	var req updateBookRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	// status defaults to visible when the body omits it
	status := true
	if req.Status != nil {
		status = *req.Status
	}
	book := domain.Book{
		UserID:       req.UserID,
		BookName:     req.BookName,
		BookDesc:     req.BookDesc,
		NoOfPages:    req.NoOfPages,
		BookAuthor:   req.BookAuthor,
		BookCategory: req.BookCategory,
		BookPrice:    req.BookPrice,
		ReleasedYear: req.ReleasedYear,
		Status:       status,
	}
	if err := s.app.UpdateBook(id, book); err != nil {
		if errors.Is(err, app.ErrBookNotFound) {
			writeMessage(w, http.StatusNotFound, msgBookUpdateFailed)
			return
		}
		util.LoggerFromContext(r.Context()).Error("update book", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return
	}
	s.audit(r, "book.update", "success", "book_id", id)
	writeMessage(w, http.StatusOK, msgBookUpdated)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request, id uint) {
	if err := s.app.DeleteBook(id); err != nil {
		if errors.Is(err, app.ErrBookNotFound) {
			writeMessage(w, http.StatusNotFound, msgBookDeleteFailed)
			return
		}
		util.LoggerFromContext(r.Context()).Error("delete book", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return
	}
	s.audit(r, "book.delete", "success", "book_id", id)
	writeMessage(w, http.StatusOK, msgBookDeleted)
}
