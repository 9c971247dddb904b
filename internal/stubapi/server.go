package stubapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/domain"
)

// Server wires the in-memory store to the HTTP contract.
type Server struct {
	store  *Store
	secret string
	logger *zap.Logger
}

func NewServer(secret string, logger *zap.Logger) *Server {
	if secret == "" {
		secret = "stub-secret"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:  NewStore(),
		secret: secret,
		logger: logger,
	}
}

// Store exposes the backing store so tests and the dev server can seed data.
func (s *Server) Store() *Store { return s.store }

// Router builds the route table.
func (s *Server) Router() *router.Router {
	r := router.New()

	r.GET("/health", s.handleHealth)

	r.POST("/api/login", s.handleLogin)
	r.POST("/api/register", s.handleRegister)
	r.POST("/api/forgot-password", s.handleForgotPassword)

	r.GET("/api/user", s.requireAuth(s.handleCurrentUser))
	r.PUT("/api/user/update", s.requireAuth(s.handleUpdateProfile))
	r.POST("/api/logout", s.requireAuth(s.handleLogout))

	r.GET("/api/todos", s.requireAuth(s.handleListTodos))
	r.POST("/api/todos", s.requireAuth(s.handleCreateTodo))
	r.PUT("/api/todos/{id}", s.requireAuth(s.handleUpdateTodo))
	r.DELETE("/api/todos/{id}", s.requireAuth(s.handleDeleteTodo))

	return r
}

// Handler returns the fasthttp handler for the whole stub.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.Router().Handler
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	s.respond(ctx, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondMessage(ctx, http.StatusBadRequest, "invalid payload")
		return
	}

	fieldErrs := map[string][]string{}
	if req.Email == "" {
		fieldErrs["email"] = append(fieldErrs["email"], "The email field is required.")
	}
	if req.Password == "" {
		fieldErrs["password"] = append(fieldErrs["password"], "The password field is required.")
	}
	if len(fieldErrs) > 0 {
		s.respondErrors(ctx, fieldErrs)
		return
	}

	user, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		s.respondErrors(ctx, map[string][]string{
			"email": {"These credentials do not match our records."},
		})
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.respondMessage(ctx, http.StatusInternalServerError, "could not issue token")
		return
	}
	s.respond(ctx, http.StatusOK, transport.LoginResponse{Token: token, User: user})
}

func (s *Server) handleRegister(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondMessage(ctx, http.StatusBadRequest, "invalid payload")
		return
	}

	fieldErrs := map[string][]string{}
	if req.Name == "" {
		fieldErrs["name"] = append(fieldErrs["name"], "The name field is required.")
	}
	if req.Email == "" {
		fieldErrs["email"] = append(fieldErrs["email"], "The email field is required.")
	}
	if len(req.Password) < domain.MinPasswordLen {
		fieldErrs["password"] = append(fieldErrs["password"], "The password must be at least 6 characters.")
	}
	if len(fieldErrs) > 0 {
		s.respondErrors(ctx, fieldErrs)
		return
	}

	user, ok := s.store.CreateUser(req.Name, req.Email, req.Password, req.Photo)
	if !ok {
		s.respondErrors(ctx, map[string][]string{
			"email": {"The email has already been taken."},
		})
		return
	}

	// No token on registration: the client must follow up with a login.
	s.respond(ctx, http.StatusCreated, transport.RegisterResponse{User: user})
}

func (s *Server) handleForgotPassword(ctx *fasthttp.RequestCtx) {
	var req transport.ForgotPasswordRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" {
		s.respondErrors(ctx, map[string][]string{
			"email": {"The email field is required."},
		})
		return
	}

	temp := uuid.NewString()[:12]
	if !s.store.ResetPassword(req.Email, temp) {
		s.respondMessage(ctx, http.StatusNotFound, "We can't find a user with that email address.")
		return
	}
	// A real backend mails the credential; the stub logs it instead.
	s.logger.Info("temporary password issued", zap.String("email", req.Email), zap.String("password", temp))
	s.respond(ctx, http.StatusOK, transport.MessageResponse{Message: "We have emailed you a temporary password."})
}

func (s *Server) handleCurrentUser(ctx *fasthttp.RequestCtx) {
	user, ok := s.store.UserByID(authedUserID(ctx))
	if !ok {
		ctx.SetStatusCode(http.StatusUnauthorized)
		return
	}
	// Bare record, no wrapper.
	s.respond(ctx, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(ctx *fasthttp.RequestCtx) {
	var req transport.ProfileUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondMessage(ctx, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" {
		s.respondMessage(ctx, http.StatusUnprocessableEntity, "The name and email fields are required.")
		return
	}

	userID := authedUserID(ctx)
	if req.NewPassword != "" {
		if len(req.NewPassword) < domain.MinPasswordLen {
			s.respondMessage(ctx, http.StatusUnprocessableEntity, "The new password must be at least 6 characters.")
			return
		}
		if !s.store.CheckPassword(userID, req.CurrentPassword) {
			s.respondMessage(ctx, http.StatusUnprocessableEntity, "The current password is incorrect.")
			return
		}
	}

	user, ok := s.store.UpdateUser(userID, req.Name, req.Email, req.Photo, req.NewPassword)
	if !ok {
		s.respondMessage(ctx, http.StatusUnprocessableEntity, "The email has already been taken.")
		return
	}

	s.respond(ctx, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "Profile updated successfully.",
	})
}

func (s *Server) handleLogout(ctx *fasthttp.RequestCtx) {
	s.store.RevokeToken(extractToken(ctx))
	s.respond(ctx, http.StatusOK, transport.MessageResponse{Message: "Logged out."})
}

func (s *Server) handleListTodos(ctx *fasthttp.RequestCtx) {
	todos := s.store.Todos(authedUserID(ctx))
	s.respond(ctx, http.StatusOK, transport.TodosResponse{Todos: todos})
}

func (s *Server) handleCreateTodo(ctx *fasthttp.RequestCtx) {
	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondMessage(ctx, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		s.respondMessage(ctx, http.StatusUnprocessableEntity, "The title field is required.")
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	s.store.CreateTodo(authedUserID(ctx), domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
	})
	s.respond(ctx, http.StatusCreated, transport.MessageResponse{Message: "Todo created successfully."})
}

func (s *Server) handleUpdateTodo(ctx *fasthttp.RequestCtx) {
	id, ok := todoID(ctx)
	if !ok {
		s.respondMessage(ctx, http.StatusNotFound, "Todo not found.")
		return
	}
	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondMessage(ctx, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title != nil && *req.Title == "" {
		s.respondMessage(ctx, http.StatusUnprocessableEntity, "The title field is required.")
		return
	}

	updated := s.store.UpdateTodo(authedUserID(ctx), id, func(t *domain.Task) {
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if req.DueDate != nil {
			t.DueDate = *req.DueDate
		}
		if req.Completed != nil {
			t.Completed = *req.Completed
		}
	})
	if !updated {
		s.respondMessage(ctx, http.StatusNotFound, "Todo not found.")
		return
	}
	s.respond(ctx, http.StatusOK, transport.MessageResponse{Message: "Todo updated successfully."})
}

func (s *Server) handleDeleteTodo(ctx *fasthttp.RequestCtx) {
	id, ok := todoID(ctx)
	if !ok || !s.store.DeleteTodo(authedUserID(ctx), id) {
		s.respondMessage(ctx, http.StatusNotFound, "Todo not found.")
		return
	}
	s.respond(ctx, http.StatusOK, transport.MessageResponse{Message: "Todo deleted successfully."})
}

func todoID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) respond(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (s *Server) respondMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	s.respond(ctx, status, transport.ErrorBody{Message: transport.Message(message)})
}

func (s *Server) respondErrors(ctx *fasthttp.RequestCtx, fieldErrs map[string][]string) {
	s.respond(ctx, http.StatusUnprocessableEntity, transport.ErrorBody{Errors: fieldErrs})
}
