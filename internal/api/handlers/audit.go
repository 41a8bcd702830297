package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auditlog"
)

// AuditHandler lists the audit trail, newest first, optionally only
// ?entity=.
func AuditHandler(log *auditlog.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := log.Read()
		if err != nil {
			responses.Fail(c, err)
			return
		}
		entity := c.Query("entity")
		out := make([]auditlog.Record, 0, len(recs))
		for i := len(recs) - 1; i >= 0; i-- {
			if entity == "" || recs[i].Entity == entity {
				out = append(out, recs[i])
			}
		}
		responses.Success(c, out, "")
	}
}
