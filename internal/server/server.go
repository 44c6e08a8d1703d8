// Package server implements the optional schedule sync API: user
// registration and login, and one persisted schedule blob per authenticated
// user. Local schedule state never depends on it.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sovanreach/weekplan/internal/validation"
)

type Server struct {
	cfg     Config
	logger  *zap.Logger
	storage *MemStorage
	tokens  *TokenIssuer
}

func New(cfg Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		storage: NewMemStorage(),
		tokens:  NewTokenIssuer(cfg.JWTSecret),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
	}

	protected := r.Group("/api", authMiddleware(s.tokens))
	{
		protected.POST("/schedule/save", s.handleSaveSchedule)
		protected.GET("/schedule", s.handleGetSchedule)
	}

	return r
}

// Run starts the server on the configured port, blocking until it exits.
func (s *Server) Run() error {
	s.logger.Info("starting sync server", zap.String("port", s.cfg.Port))
	return s.Router().Run(":" + s.cfg.Port)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	user, err := s.storage.CreateUser(req.Username, req.Password)
	if err == ErrUsernameTaken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	}
	if err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info("user registered", zap.String("username", user.Username))
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	user, err := s.storage.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "userId": user.ID})
}

type saveScheduleRequest struct {
	Schedule json.RawMessage `json:"schedule"`
}

func (s *Server) handleSaveSchedule(c *gin.Context) {
	userID := c.GetString("userID")

	var req saveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Schedule) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule required"})
		return
	}

	if !validation.ValidateWeekSchedule(req.Schedule) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule"})
		return
	}

	s.storage.SaveSchedule(userID, req.Schedule)
	s.logger.Info("schedule saved", zap.String("userId", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Schedule saved"})
}

func (s *Server) handleGetSchedule(c *gin.Context) {
	userID := c.GetString("userID")

	schedule := s.storage.GetSchedule(userID)
	if schedule == nil {
		c.JSON(http.StatusOK, gin.H{"schedule": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}
