package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bookvault/internal/session"
	"bookvault/internal/store"
	"bookvault/internal/validation"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := New(Config{
		Store:    mem,
		Sessions: session.NewManager("test-secret", time.Hour),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func registerInput() validation.RegisterInput {
	return validation.RegisterInput{
		Name:            "validname",
		Email:           "a@b.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Gender:          "m",
		Interest:        []string{"x"},
	}
}

func bookInput() validation.BookInput {
	return validation.BookInput{
		BookName:     "Dune",
		BookDesc:     "Desert planet epic.",
		NoOfPages:    412,
		BookAuthor:   "Frank Herbert",
		BookCategory: "sci-fi",
		BookPrice:    12.5,
		ReleasedYear: 1965,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	a, _ := newTestApp(t)
	user, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned user ID")
	}
	if user.Password == "secret1" {
		t.Fatalf("password stored in plaintext")
	}

	got, token, err := a.Login("a@b.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID || token == "" {
		t.Fatalf("login user=%d token=%q", got.ID, token)
	}

	resolved, err := a.UserFromToken(token)
	if err != nil {
		t.Fatalf("user from token: %v", err)
	}
	if resolved.Email != "a@b.com" {
		t.Fatalf("resolved email = %q", resolved.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register(registerInput(), ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := a.Register(registerInput(), "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginFailures(t *testing.T) {
	a, _ := newTestApp(t)
	if _, _, err := a.Login("ghost@b.com", "whatever1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown email err = %v, want ErrUserNotFound", err)
	}
	if _, err := a.Register(registerInput(), ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := a.Login("a@b.com", "wrongpass"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("bad password err = %v, want ErrWrongPassword", err)
	}
}

func TestUserFromTokenRejectsBadToken(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.UserFromToken("garbage"); !IsInvalidToken(err) {
		t.Fatalf("err = %v, want invalid token", err)
	}
}

func TestCreateBookOwnerResolution(t *testing.T) {
	a, _ := newTestApp(t)
	owner, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	book, err := a.CreateBook(owner, bookInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if book.UserID != owner.ID {
		t.Fatalf("owner = %d, want token subject %d", book.UserID, owner.ID)
	}
	if !book.Status {
		t.Fatalf("new book should be visible by default")
	}

	in := bookInput()
	in.UserID = 99 // body-supplied owner wins
	book, err = a.CreateBook(owner, in)
	if err != nil {
		t.Fatalf("create with explicit owner: %v", err)
	}
	if book.UserID != 99 {
		t.Fatalf("owner = %d, want body-supplied 99", book.UserID)
	}
}

func TestListBooksPagination(t *testing.T) {
	a, _ := newTestApp(t)
	owner, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	for i := 0; i < 25; i++ {
		in := bookInput()
		in.BookName = fmt.Sprintf("Book %02d", i)
		if _, err := a.CreateBook(owner, in); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	books, maxPage, err := a.ListBooks(1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 10 || maxPage != 3 {
		t.Fatalf("page 1: len=%d maxPage=%d", len(books), maxPage)
	}
	books, _, err = a.ListBooks(3, 10)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(books) != 5 {
		t.Fatalf("page 3 len = %d, want 5", len(books))
	}

	_, _, err = a.ListBooks(4, 10)
	var pre *PageRangeError
	if !errors.As(err, &pre) {
		t.Fatalf("err = %v, want PageRangeError", err)
	}
	if pre.MaxPage != 3 {
		t.Fatalf("max page = %d, want 3", pre.MaxPage)
	}
	if pre.Error() != "There are only 3 page" {
		t.Fatalf("message = %q", pre.Error())
	}
}

func TestListBooksEmptyStore(t *testing.T) {
	a, _ := newTestApp(t)
	books, maxPage, err := a.ListBooks(1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 0 || maxPage != 1 {
		t.Fatalf("len=%d maxPage=%d, want empty list and maxPage 1", len(books), maxPage)
	}
}

func TestListBooksSkipsHidden(t *testing.T) {
	a, mem := newTestApp(t)
	owner, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	visible, err := a.CreateBook(owner, bookInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hidden, err := a.CreateBook(owner, bookInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hiddenCopy := hidden
	hiddenCopy.Status = false
	if _, err := mem.UpdateBook(hidden.ID, hiddenCopy); err != nil {
		t.Fatalf("hide book: %v", err)
	}

	books, _, err := a.ListBooks(1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 1 || books[0].ID != visible.ID {
		t.Fatalf("books = %+v, want only the visible one", books)
	}

	// name search ignores the status flag
	found, err := a.SearchBooks("dune")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("search len = %d, want 2 (hidden included)", len(found))
	}
}

func TestBookDetailIncludesOwnerName(t *testing.T) {
	a, _ := newTestApp(t)
	owner, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	book, err := a.CreateBook(owner, bookInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	detail, err := a.BookDetail(book.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.OwnerName != "validname" {
		t.Fatalf("owner name = %q", detail.OwnerName)
	}
	if _, err := a.BookDetail(9999); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("missing book err = %v", err)
	}
}

func TestUpdateAndDeleteBook(t *testing.T) {
	a, _ := newTestApp(t)
	owner, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	book, err := a.CreateBook(owner, bookInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := book
	updated.BookName = "Dune Messiah"
	if err := a.UpdateBook(book.ID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	detail, err := a.BookDetail(book.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.BookName != "Dune Messiah" {
		t.Fatalf("book name = %q", detail.BookName)
	}

	if err := a.UpdateBook(9999, updated); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
	if err := a.DeleteBook(book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := a.DeleteBook(book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestDeleteUserCascadesBooks(t *testing.T) {
	a, mem := newTestApp(t)
	owner, err := a.Register(registerInput(), "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	book, err := a.CreateBook(owner, bookInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	deleted, err := mem.DeleteUser(owner.ID)
	if err != nil || deleted != 1 {
		t.Fatalf("delete user: deleted=%d err=%v", deleted, err)
	}
	if _, err := a.BookDetail(book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("book should be gone with its owner, err = %v", err)
	}
}
