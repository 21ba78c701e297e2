package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

// writeError maps the error taxonomy to HTTP responses. Validation problems
// echo their reason to the client; everything else returns a category
// message only, with the detail kept in server logs.
func writeError(c *gin.Context, err error) {
	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
		return
	}

	if errors.Is(err, repository.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	requestID, _ := c.Get("request_id")
	log.Printf("Request %v failed: %v", requestID, err)

	var uploadErr *entities.UploadFailedError
	if errors.As(err, &uploadErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "object storage transfer failed"})
		return
	}

	var persistErr *entities.PersistenceError
	if errors.As(err, &persistErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "metadata store failure"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
