package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProjects handles GET /api/projects
// Query parameters: title, technologies, tags (comma-separated), sort
// (a-z|z-a|new|old), page, pageSize.
func (s *Server) GetProjects(c *fiber.Ctx) error {
	in := service.ListProjectsInput{
		Title:        c.Query("title"),
		Technologies: splitList(c.Query("technologies")),
		Tags:         splitList(c.Query("tags")),
		Sort:         c.Query("sort"),
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("pageSize", 0),
	}

	projects, err := s.catalog.ListProjects(c.Context(), in, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(projects)
}

// GetProject handles GET /api/projects/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.catalog.GetProject(c.Context(), id, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}

// CreateProject handles POST /api/projects
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Image        string   `json:"image"`
		Technologies []string `json:"technologies"`
		Tags         []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.catalog.CreateProject(c.Context(), service.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Technologies: req.Technologies,
		Tags:         req.Tags,
	}, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PUT /api/projects/:id
// Absent fields keep their stored value; absent association lists keep the
// stored sets, present ones replace them entirely.
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		Image        *string  `json:"image"`
		Technologies []string `json:"technologies"`
		Tags         []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.catalog.UpdateProject(c.Context(), id, service.UpdateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Technologies: req.Technologies,
		Tags:         req.Tags,
	}, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(project)
}

// DeleteProject handles DELETE /api/projects/:id (soft delete)
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalog.DeleteProject(c.Context(), id, principal(c)); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Project moved to trash",
	})
}

// GetDeletedProjects handles GET /api/projects/deleted
func (s *Server) GetDeletedProjects(c *fiber.Ctx) error {
	projects, err := s.catalog.ListTrashedProjects(c.Context(), principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(projects)
}

// GetDeletedProject handles GET /api/projects/deleted/:id
func (s *Server) GetDeletedProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.catalog.GetTrashedProject(c.Context(), id, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}

// RestoreProject handles POST /api/projects/restore/:id
func (s *Server) RestoreProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.catalog.RestoreProject(c.Context(), id, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}

// ToggleProjectLike handles POST /api/projects/:id/like
func (s *Server) ToggleProjectLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.catalog.ToggleLike(c.Context(), id, principal(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(project)
}
