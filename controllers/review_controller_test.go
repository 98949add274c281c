package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightwash/carwash-api/models"
)

func TestAddReview(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	reviewer := createTestUser(t, db, "reviewer", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	router := newBookingRouter(reviewer)
	form := url.Values{"text": {"Spotless, thank you"}, "rating": {"5"}}
	w := postForm(router, fmt.Sprintf("/posts/%d/comment/", order.ID), form)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", order.ID), w.Header().Get("Location"))

	var review models.Review
	require.NoError(t, db.First(&review).Error)
	assert.Equal(t, "Spotless, thank you", review.Text)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, reviewer.ID, review.AuthorID)
	assert.Equal(t, order.ID, review.OrderID)
}

func TestAddReviewInvalidRedirectsSilently(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	reviewer := createTestUser(t, db, "reviewer", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	router := newBookingRouter(reviewer)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing text", url.Values{"rating": {"5"}}},
		{"rating below range", url.Values{"text": {"Bad"}, "rating": {"0"}}},
		{"rating above range", url.Values{"text": {"Too good"}, "rating": {"6"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(router, fmt.Sprintf("/posts/%d/comment/", order.ID), tt.form)

			// No error payload, just a bounce back to the detail page
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, fmt.Sprintf("/posts/%d/", order.ID), w.Header().Get("Location"))

			var count int64
			require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
			assert.Zero(t, count, "Invalid input must not be saved")
		})
	}
}

func TestAddReviewMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createTestUser(t, db, "reviewer", false)

	router := newBookingRouter(reviewer)
	w := postForm(router, "/posts/9999/comment/", url.Values{"text": {"Hello"}, "rating": {"4"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddReviewRequiresLogin(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	router := newBookingRouter(nil)
	w := postForm(router, fmt.Sprintf("/posts/%d/comment/", order.ID), url.Values{"text": {"Hi"}, "rating": {"4"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/", w.Header().Get("Location"))
}

func TestEditReview(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	author := createTestUser(t, db, "author", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	review := models.Review{Text: "Fine", Rating: 3, OrderID: order.ID, AuthorID: author.ID}
	require.NoError(t, db.Create(&review).Error)

	router := newBookingRouter(author)

	// GET returns the current values
	w := getPath(router, fmt.Sprintf("/posts/%d/comment/%d/edit/", order.ID, review.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Fine", data["text"])

	// POST updates and redirects to the detail page
	form := url.Values{"text": {"Actually great"}, "rating": {"5"}}
	w = postForm(router, fmt.Sprintf("/posts/%d/comment/%d/edit/", order.ID, review.ID), form)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", order.ID), w.Header().Get("Location"))

	var reloaded models.Review
	require.NoError(t, db.First(&reloaded, review.ID).Error)
	assert.Equal(t, "Actually great", reloaded.Text)
	assert.Equal(t, 5, reloaded.Rating)
}

func TestEditReviewInvalidShowsErrors(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	author := createTestUser(t, db, "author", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	review := models.Review{Text: "Fine", Rating: 3, OrderID: order.ID, AuthorID: author.ID}
	require.NoError(t, db.Create(&review).Error)

	router := newBookingRouter(author)
	// Unlike adding, editing with bad input reports the validation error
	w := postForm(router, fmt.Sprintf("/posts/%d/comment/%d/edit/", order.ID, review.ID), url.Values{"text": {"Bad"}, "rating": {"9"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Review
	require.NoError(t, db.First(&reloaded, review.ID).Error)
	assert.Equal(t, 3, reloaded.Rating, "Invalid edit must not be saved")
}

func TestEditReviewNonAuthorRedirects(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	author := createTestUser(t, db, "author", false)
	stranger := createTestUser(t, db, "stranger", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	review := models.Review{Text: "Fine", Rating: 3, OrderID: order.ID, AuthorID: author.ID}
	require.NoError(t, db.Create(&review).Error)

	router := newBookingRouter(stranger)
	w := postForm(router, fmt.Sprintf("/posts/%d/comment/%d/edit/", order.ID, review.ID), url.Values{"text": {"Mine now"}, "rating": {"1"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", order.ID), w.Header().Get("Location"))

	var reloaded models.Review
	require.NoError(t, db.First(&reloaded, review.ID).Error)
	assert.Equal(t, "Fine", reloaded.Text)
}

func TestEditReviewOrderMismatch(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	author := createTestUser(t, db, "author", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	orderOne := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})
	orderTwo := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	review := models.Review{Text: "Fine", Rating: 3, OrderID: orderOne.ID, AuthorID: author.ID}
	require.NoError(t, db.Create(&review).Error)

	router := newBookingRouter(author)
	// The review exists but belongs to a different order
	w := getPath(router, fmt.Sprintf("/posts/%d/comment/%d/edit/", orderTwo.ID, review.ID))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReview(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	author := createTestUser(t, db, "author", false)
	stranger := createTestUser(t, db, "stranger", false)
	serviceType := createTestServiceType(t, db, "full-wash", 50, true)
	order := createTestOrder(t, db, testOrderOptions{client: owner, serviceType: serviceType, appointment: pastDate(), published: true})

	review := models.Review{Text: "Fine", Rating: 3, OrderID: order.ID, AuthorID: author.ID}
	require.NoError(t, db.Create(&review).Error)

	deletePath := fmt.Sprintf("/posts/%d/comment/%d/delete/", order.ID, review.ID)

	// Non-author is bounced back
	strangerRouter := newBookingRouter(stranger)
	w := postForm(strangerRouter, deletePath, url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", order.ID), w.Header().Get("Location"))

	authorRouter := newBookingRouter(author)

	// GET only shows the confirmation
	w = getPath(authorRouter, deletePath)
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "GET must not delete")

	// POST deletes and redirects
	w = postForm(authorRouter, deletePath, url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", order.ID), w.Header().Get("Location"))

	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}
