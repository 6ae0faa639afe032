package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/slabwatch/slabwatch/internal/auth"
	"github.com/slabwatch/slabwatch/internal/duckdb"
	"github.com/slabwatch/slabwatch/internal/model"

	"github.com/gin-gonic/gin"
)

// nowStamp returns the UTC timestamp format persisted with saved searches.
func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func currentUser(c *gin.Context) *model.User {
	u, _ := c.MustGet(userKey).(*model.User)
	return u
}

func (s *Server) handleHealth(c *gin.Context) {
	users, err := s.store.UserCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"users":  users,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if _, err := s.store.UserByUsername(username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username taken"})
		return
	} else if !errors.Is(err, duckdb.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check username"})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	if _, err := s.store.CreateUser(username, hash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (s *Server) handleToken(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := s.store.UserByUsername(username)
	if errors.Is(err, duckdb.ErrNotFound) || (err == nil && !auth.VerifyPassword(password, user.PasswordHash)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect username or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleSaved(c *gin.Context) {
	user := currentUser(c)

	results, err := s.store.ListSearches(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list saved searches"})
		return
	}
	if results == nil {
		results = []model.SavedResult{}
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) handleSearch(c *gin.Context) {
	user := currentUser(c)

	cardName := strings.TrimSpace(c.PostForm("card_name"))
	if cardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "card_name is required"})
		return
	}
	region := c.PostForm("region")
	if region == "" {
		region = model.DefaultRegion
	}

	report, imageURL, err := s.gatherer.Gather(c.Request.Context(), cardName, region)
	if err != nil {
		log.Printf("httpserver: gather failed for %q: %v", cardName, err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "price gather failed"})
		return
	}

	if err := s.store.UpsertSearch(user.ID, cardName, region, report, imageURL, nowStamp()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to save search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": report, "image": imageURL})
}

func (s *Server) handleRefresh(c *gin.Context) {
	user := currentUser(c)

	cardName := strings.TrimSpace(c.PostForm("card_name"))
	if cardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "card_name is required"})
		return
	}

	saved, err := s.store.SearchByCard(user.ID, cardName)
	if errors.Is(err, duckdb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load saved search"})
		return
	}

	report, imageURL, err := s.gatherer.Gather(c.Request.Context(), cardName, saved.Region)
	if err != nil {
		log.Printf("httpserver: refresh gather failed for %q: %v", cardName, err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "price gather failed"})
		return
	}

	if err := s.store.UpdateSearchResult(user.ID, cardName, report, imageURL, nowStamp()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to update saved search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "avg": report.Avg, "image": imageURL})
}

func (s *Server) handleConfirmImage(c *gin.Context) {
	user := currentUser(c)

	cardName := strings.TrimSpace(c.PostForm("card_name"))
	imageURL := c.PostForm("image_url")
	if cardName == "" || imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "card_name and image_url are required"})
		return
	}

	err := s.store.ConfirmImage(user.ID, cardName, imageURL, nowStamp())
	if errors.Is(err, duckdb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to confirm image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
