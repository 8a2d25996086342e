package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/agentlog/internal/advisor"
	"github.com/atikulmunna/agentlog/internal/docs"
	apperr "github.com/atikulmunna/agentlog/internal/errors"
	"github.com/atikulmunna/agentlog/internal/ingest"
	"github.com/gin-gonic/gin"
)

// writeError turns an error into the JSON error body used by every endpoint.
func writeError(c *gin.Context, err error) {
	body := gin.H{"success": false}
	if ae, ok := apperr.AsAppError(err); ok {
		body["error"] = ae.Msg
		body["code"] = ae.Code
		for k, v := range ae.Details {
			body[k] = v
		}
		if ae.Cause != nil {
			body["details"] = ae.Cause.Error()
		}
	} else {
		body["error"] = err.Error()
		body["code"] = apperr.EInternal
	}
	c.JSON(apperr.HTTPStatus(err), body)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"uptime":    time.Since(s.startTime).Seconds(),
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	dirStats, err := docs.Stats(s.opts.StatsDir, s.now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{
		"success": true,
		"stats":   dirStats,
		"ingest":  s.ingest.Stats(),
	}
	if s.aggregator != nil {
		body["events"] = s.aggregator.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleLogEntry(c *gin.Context) {
	var req ingest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Wrap(apperr.EInvalidEntry, "Invalid entry", err))
		return
	}
	if force, err := strconv.ParseBool(c.Query("force")); err == nil && force {
		req.Force = true
	}
	req.Source = c.ClientIP()

	res, err := s.ingest.Submit(c.Request.Context(), req)
	if err != nil {
		if ae, ok := apperr.AsAppError(err); ok && ae.Code == apperr.ERateLimited {
			if ms, convErr := strconv.ParseInt(ae.Details["retryAfterMs"], 10, 64); convErr == nil {
				c.Header("Retry-After", strconv.FormatInt((ms+999)/1000, 10))
				c.JSON(http.StatusTooManyRequests, gin.H{
					"success":      false,
					"error":        ae.Msg,
					"code":         ae.Code,
					"retryAfterMs": ms,
				})
				return
			}
		}
		writeError(c, err)
		return
	}

	if res.Duplicate {
		c.JSON(http.StatusConflict, gin.H{
			"success":       false,
			"duplicate":     true,
			"existingEntry": res.Existing,
			"message":       res.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Entry logged successfully",
		"timestamp": res.Entry.Timestamp,
		"hash":      res.Hash,
	})
}

func (s *Server) handleLogEntries(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = ingest.DefaultReadLimit
	}

	entries, err := s.ingest.Recent(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
		"total":   len(entries),
	})
}

func (s *Server) handleDoc(c *gin.Context) {
	doc, err := s.docs.Get(c.Param("filename"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"filename":     doc.Filename,
		"content":      doc.Content,
		"size":         doc.Size,
		"lastModified": doc.LastModified,
	})
}

type routeRequest struct {
	Task string `json:"task"`
}

func (s *Server) handleRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Task) == "" {
		writeError(c, apperr.New(apperr.EUsage, "task description is required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"recommendation": advisor.Recommend(req.Task),
	})
}
