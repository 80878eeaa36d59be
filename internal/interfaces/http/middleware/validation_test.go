package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaveBody struct {
	LeaveType string          `json:"leave_type" binding:"required,oneof=annual sick personal"`
	StartDate string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	Reason    string          `json:"reason" binding:"max=10"`
	Tags      []string        `json:"tags" binding:"max=1"`
	Days      int             `json:"days"`
	Allowance decimal.Decimal `json:"allowance" binding:"omitempty,amount"`
}

func postLeave(t *testing.T, body string) map[string]string {
	t.Helper()
	RegisterValidators()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/leave", func(c *gin.Context) {
		var req leaveBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		return nil
	}

	require.Equal(t, http.StatusBadRequest, rec.Code)
	info := decodeError(t, rec)
	assert.Equal(t, dto.ErrCodeValidation, info.Code)
	assert.NotEmpty(t, info.RequestID)

	messages := map[string]string{}
	for _, d := range info.Details {
		messages[d.Field] = d.Message
	}
	return messages
}

func TestHandleValidationError(t *testing.T) {
	t.Run("field messages", func(t *testing.T) {
		messages := postLeave(t, `{"leave_type":"party","start_date":"04/03/2024","reason":"a very long reason","tags":["a","b"]}`)

		assert.Equal(t, "Must be one of: annual sick personal", messages["leave_type"])
		assert.Equal(t, "Must be a date in format 2006-01-02", messages["start_date"])
		assert.Equal(t, "Must be at most 10 characters", messages["reason"])
		assert.Equal(t, "Must have at most 1 items", messages["tags"])
	})

	t.Run("decimal amounts", func(t *testing.T) {
		base := `"leave_type":"annual","start_date":"2026-03-02"`

		assert.Nil(t, postLeave(t, `{`+base+`,"allowance":"12.50"}`))
		assert.Nil(t, postLeave(t, `{`+base+`}`))
		assert.Equal(t, "Must be a positive amount", postLeave(t, `{`+base+`,"allowance":"-3"}`)["allowance"])
	})

	t.Run("json type mismatch", func(t *testing.T) {
		messages := postLeave(t, `{"leave_type":"annual","start_date":"2026-03-02","days":"three"}`)

		assert.Equal(t, "Must be a number", messages["days"])
	})
}

func TestValidationDetails_OtherErrors(t *testing.T) {
	assert.Empty(t, ValidationDetails(errors.New("unexpected EOF")))
}
