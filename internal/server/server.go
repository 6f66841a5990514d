// Package server exposes the portal API over HTTP: the chat endpoint, event
// log persistence and retrieval, and PDF ingestion uploads.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/user/claimsportal/internal/chat"
	"github.com/user/claimsportal/internal/eventlog"
	"github.com/user/claimsportal/internal/ingest"
)

// DefaultMaxUploadBytes caps uploaded PDF size at 10MB.
const DefaultMaxUploadBytes = 10 << 20

// ChatService answers chat requests.
type ChatService interface {
	Chat(ctx context.Context, req chat.Request) chat.Result
	Configured() bool
}

// Ingestor processes uploaded PDF documents.
type Ingestor interface {
	ProcessPDF(ctx context.Context, pdfBytes []byte, fileName string) (*ingest.Result, error)
}

// Options configures the HTTP server.
type Options struct {
	CORSOrigins    []string
	UploadDir      string
	MaxUploadBytes int64
}

// Server wires the portal services into a gin engine.
type Server struct {
	chat      ChatService
	ingest    Ingestor
	logs      *eventlog.Store
	uploadDir string
	maxUpload int64
	engine    *gin.Engine
}

// New creates the HTTP server and registers all routes.
func New(chatSvc ChatService, ingestSvc Ingestor, logs *eventlog.Store, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		chat:      chatSvc,
		ingest:    ingestSvc,
		logs:      logs,
		uploadDir: opts.UploadDir,
		maxUpload: opts.MaxUploadBytes,
		engine:    gin.New(),
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(corsMiddleware(opts.CORSOrigins))

	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/api/chat", s.handleChat)
	s.engine.POST("/api/event-log", s.handleSaveEventLog)
	s.engine.GET("/api/event-log/:claim_number", s.handleGetEventLog)
	s.engine.POST("/api/ingest", s.handleIngest)

	return s
}

// ServeHTTP delegates to the gin engine, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SunLife Insurance Intake Portal API",
		"version": "1.0.0",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                  "healthy",
		"chat_service_configured": s.chat.Configured(),
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}

	// Upstream and configuration failures ride inside the result; the
	// HTTP status stays 200 so the frontend can present them.
	result := s.chat.Chat(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}

// eventLogRequest is the body of POST /api/event-log.
type eventLogRequest struct {
	ClaimNumber string            `json:"claim_number" binding:"required"`
	PatientName string            `json:"patient_name" binding:"required"`
	EventLog    []json.RawMessage `json:"event_log" binding:"required"`
}

func (s *Server) handleSaveEventLog(c *gin.Context) {
	var req eventLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "claim_number, patient_name and event_log are required"})
		return
	}

	path, err := s.logs.Save(req.ClaimNumber, req.PatientName, req.EventLog)
	if err != nil {
		slog.Error("failed to save event log", "claim_number", req.ClaimNumber, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "error saving event log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Event log saved successfully",
		"filepath":    path,
		"event_count": len(req.EventLog),
	})
}

func (s *Server) handleGetEventLog(c *gin.Context) {
	claimNumber := c.Param("claim_number")

	log, err := s.logs.Latest(claimNumber)
	if err != nil {
		if errors.Is(err, eventlog.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Event log not found for this claim"})
			return
		}
		slog.Error("failed to read event log", "claim_number", claimNumber, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "error reading event log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": log})
}

func (s *Server) handleIngest(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   fmt.Sprintf("file too large (max %dMB)", s.maxUpload/(1<<20)),
		})
		return
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "only PDF files are allowed"})
		return
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unable to read uploaded file"})
		return
	}

	s.storeUpload(header.Filename, pdfBytes)

	result, err := s.ingest.ProcessPDF(c.Request.Context(), pdfBytes, header.Filename)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ingest.ErrNotConfigured) || errors.Is(err, ingest.ErrNoText) {
			status = http.StatusBadRequest
		}
		slog.Error("PDF ingestion failed", "file_name", header.Filename, "error", err)
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// storeUpload keeps a copy of the uploaded document on disk under a fresh
// id. Failures are logged only; ingestion proceeds from memory regardless.
func (s *Server) storeUpload(fileName string, pdfBytes []byte) {
	if s.uploadDir == "" {
		return
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		slog.Warn("failed to create upload dir", "dir", s.uploadDir, "error", err)
		return
	}
	path := filepath.Join(s.uploadDir, uuid.New().String()+".pdf")
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		slog.Warn("failed to store uploaded PDF", "path", path, "error", err)
		return
	}
	slog.Info("stored uploaded PDF", "file_name", fileName, "path", path, "size_bytes", len(pdfBytes))
}
