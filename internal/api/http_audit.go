package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leilao/internal/entity"
	"leilao/internal/model"
)

// appendAudit records a privileged action inside the caller's transaction so
// the audit entry and the mutation commit or roll back together.
func appendAudit(ctx context.Context, repo model.Repository, user *RequestUser, action string) error {
	entry := entity.DbAuditEntry{Action: action}
	if user != nil {
		userID := user.ID
		entry.UserID = &userID
	}
	return repo.AppendAudit(ctx, &entry)
}

// ListAudit returns the most recent audit entries (admin only).
func (h *HTTPHandler) ListAudit(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.repo.ListAudit(ctx, 100)
	if err != nil {
		logrus.WithError(err).Error("list audit failed")
		InternalError(c)
		return
	}

	summaries := make([]entity.AuditSummary, 0, len(entries))
	for i := range entries {
		summaries = append(summaries, makeAuditSummary(&entries[i]))
	}
	c.JSON(http.StatusOK, summaries)
}

func makeAuditSummary(entry *entity.DbAuditEntry) entity.AuditSummary {
	summary := entity.AuditSummary{
		ID:     entry.ID,
		Action: entry.Action,
		Date:   entry.CreatedAt,
	}
	if entry.User != nil {
		summary.User = &entity.AuditUser{
			ID:    entry.User.ID,
			Name:  entry.User.Name,
			Email: entry.User.Email,
		}
	}
	return summary
}
