package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kotubrief/book-api/model"
)

func seedBook(t *testing.T, a *API, title, mainCategory, subCategory string) model.Book {
	t.Helper()

	book := model.Book{
		Title:         title,
		Author:        "Test Author",
		CoverImageURL: "http://localhost/uploads/cover.jpg",
		MainCategory:  mainCategory,
		SubCategory:   subCategory,
		Description:   "A description of " + title,
	}
	require.NoError(t, a.DB.Create(&book).Error)
	return book
}

func TestBookCRUD(t *testing.T) {
	a, m := newTestAPI(t)

	signupAndVerify(t, a, m, "Ada", "ada@example.com", "correct-horse")
	token := signIn(t, a, "ada@example.com", "correct-horse")

	w := doJSON(t, a, http.MethodPost, "/upload-book", gin.H{
		"title":           "Frankenstein",
		"author":          "Mary Shelley",
		"description":     "A scientist builds a creature.",
		"cover_image_url": "http://localhost/uploads/frank.jpg",
		"main_category":   "Literature",
		"sub_category":    "Gothic",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode(t, w)
	assert.Equal(t, "Book uploaded successfully", created["message"])

	bookID := int(created["book_id"].(float64))
	require.NotZero(t, bookID)

	w = doJSON(t, a, http.MethodGet, fmt.Sprintf("/get-book/%d", bookID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	fetched := decode(t, w)
	assert.Equal(t, "Frankenstein", fetched["title"])
	assert.Equal(t, "A scientist builds a creature.", fetched["description"])

	w = doJSON(t, a, http.MethodPut, fmt.Sprintf("/update-book/%d", bookID), gin.H{
		"description": "Revised description.",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book updated successfully", decode(t, w)["message"])

	w = doJSON(t, a, http.MethodGet, fmt.Sprintf("/get-book/%d", bookID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Revised description.", decode(t, w)["description"])

	w = doJSON(t, a, http.MethodDelete, fmt.Sprintf("/delete-book/%d", bookID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book deleted successfully", decode(t, w)["message"])

	w = doJSON(t, a, http.MethodGet, fmt.Sprintf("/get-book/%d", bookID), nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", decode(t, w)["error"])
}

func TestBookUploadValidation(t *testing.T) {
	a, m := newTestAPI(t)

	signupAndVerify(t, a, m, "Ada", "ada@example.com", "correct-horse")
	token := signIn(t, a, "ada@example.com", "correct-horse")

	w := doJSON(t, a, http.MethodPost, "/upload-book", gin.H{
		"title": "Only a title",
	}, bearer(token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode(t, w)["error"])

	// Anonymous uploads are rejected by the auth layer
	w = doJSON(t, a, http.MethodPost, "/upload-book", gin.H{
		"title":           "Frankenstein",
		"author":          "Mary Shelley",
		"description":     "x",
		"cover_image_url": "y",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookUpdateMissingDescription(t *testing.T) {
	a, _ := newTestAPI(t)

	book := seedBook(t, a, "Dune", "Literature", "Science Fiction")

	w := doJSON(t, a, http.MethodPut, fmt.Sprintf("/update-book/%d", book.ID), gin.H{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Description is required", decode(t, w)["error"])
}

func TestBookAppendText(t *testing.T) {
	a, _ := newTestAPI(t)

	book := seedBook(t, a, "Dune", "Literature", "Science Fiction")

	w := doJSON(t, a, http.MethodPost, "/append-text-to-book", gin.H{
		"book_id": book.ID,
		"text":    "Chapter one begins here.",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Text appended to book", decode(t, w)["message"])

	var updated model.Book
	require.NoError(t, a.DB.First(&updated, book.ID).Error)
	assert.Contains(t, updated.Description, book.Description)
	assert.Contains(t, updated.Description, "--- Added from PDF (")
	assert.Contains(t, updated.Description, "Chapter one begins here.")

	w = doJSON(t, a, http.MethodPost, "/append-text-to-book", gin.H{
		"book_id": 9999,
		"text":    "orphan text",
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, a, http.MethodPost, "/append-text-to-book", gin.H{"text": "no book"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksBrowse(t *testing.T) {
	a, _ := newTestAPI(t)

	for i := 0; i < 3; i++ {
		seedBook(t, a, fmt.Sprintf("Novel %d", i), "Literature", "Classic")
	}
	seedBook(t, a, "Rome", "History", "Ancient")
	seedBook(t, a, "Napoleon", "History", "Modern")

	w := doJSON(t, a, http.MethodGet, "/books/all?page=1&limit=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := decode(t, w)
	assert.EqualValues(t, 5, page["total"])
	assert.Len(t, page["books"], 3)

	w = doJSON(t, a, http.MethodGet, "/books/all?page=2&limit=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["books"], 2)

	w = doJSON(t, a, http.MethodGet, "/books/trending", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var shelf struct{ Books []model.Book }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelf))
	require.Len(t, shelf.Books, 3)
	for _, b := range shelf.Books {
		assert.Equal(t, "Literature", b.MainCategory)
	}

	w = doJSON(t, a, http.MethodGet, "/books/featured", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelf))
	require.Len(t, shelf.Books, 2)
	for _, b := range shelf.Books {
		assert.Equal(t, "History", b.MainCategory)
	}

	w = doJSON(t, a, http.MethodGet, "/books/by-category?main_category=History&sub_category=Ancient", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelf))
	require.Len(t, shelf.Books, 1)
	assert.Equal(t, "Rome", shelf.Books[0].Title)

	w = doJSON(t, a, http.MethodGet, "/books/by-category?main_category=History", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodGet, "/books/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tree struct{ Categories map[string][]string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	assert.ElementsMatch(t, []string{"Classic"}, tree.Categories["Literature"])
	assert.ElementsMatch(t, []string{"Ancient", "Modern"}, tree.Categories["History"])
}

func TestBooksOfUser(t *testing.T) {
	a, m := newTestAPI(t)

	signupAndVerify(t, a, m, "Ada", "ada@example.com", "correct-horse")
	token := signIn(t, a, "ada@example.com", "correct-horse")

	w := doJSON(t, a, http.MethodPost, "/upload-book", gin.H{
		"title":           "My Book",
		"author":          "Ada",
		"description":     "mine",
		"cover_image_url": "http://localhost/uploads/c.jpg",
	}, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code)

	// Catalog books without an owner don't show up
	seedBook(t, a, "Catalog Book", "Literature", "Classic")

	w = doJSON(t, a, http.MethodGet, "/user-books/1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var books []model.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "My Book", books[0].Title)

	w = doJSON(t, a, http.MethodGet, "/get-user-books", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	var mine struct{ Books []model.Book }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Books, 1)
	assert.Equal(t, "My Book", mine.Books[0].Title)
}
