package server

import (
	"askme/internal/models"
	"askme/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuestionListResponse is one page of a listing plus the sidebar.
type QuestionListResponse struct {
	*service.QuestionPage
	*service.Sidebar
}

// QuestionDetailResponse is a question, one page of answers and the sidebar.
type QuestionDetailResponse struct {
	*service.QuestionDetail
	*service.Sidebar
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Title string `json:"title" form:"title"`
	Text  string `json:"text" form:"text"`
	Tags  string `json:"tags" form:"tags"`
}

// AnswerRequest is the body of POST /questions/question/{id}.
type AnswerRequest struct {
	Text string `json:"text" form:"text"`
}

func (s *Server) listResponse(c *fiber.Ctx, page *service.QuestionPage) error {
	sidebar, err := s.rankingService.Sidebar(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(QuestionListResponse{QuestionPage: page, Sidebar: sidebar})
}

// ListQuestions returns a handler serving one listing view.
// @Summary List questions
// @Description Paginated listing; the view is one of all, new, hot or best
// @Tags questions
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} QuestionListResponse
// @Router /questions/ [get]
// @Router /questions/new/ [get]
// @Router /questions/hot/ [get]
// @Router /questions/best/ [get]
func (s *Server) ListQuestions(view string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := s.rankingService.Questions(c.UserContext(), view, pageParam(c))
		if err != nil {
			return respondError(c, err)
		}
		return s.listResponse(c, page)
	}
}

// ListQuestionsByTag handles GET /questions/tag/:tag
// @Summary List questions by tag
// @Tags questions
// @Produce json
// @Param tag path string true "Tag title"
// @Param page query int false "Page number"
// @Success 200 {object} QuestionListResponse
// @Router /questions/tag/{tag} [get]
func (s *Server) ListQuestionsByTag(c *fiber.Ctx) error {
	tag, err := decodeParam(c, "tag")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag", c.Params("tag")))
	}
	page, err := s.rankingService.QuestionsByTag(c.UserContext(), tag, pageParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return s.listResponse(c, page)
}

// GetQuestion handles GET /questions/question/:id
// @Summary Get a question
// @Description Question card with one page of answers, best first
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Param page query int false "Answers page"
// @Success 200 {object} QuestionDetailResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/question/{id} [get]
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.rankingService.Question(c.UserContext(), id, pageParam(c))
	if err != nil {
		return respondError(c, err)
	}
	sidebar, err := s.rankingService.Sidebar(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(QuestionDetailResponse{QuestionDetail: detail, Sidebar: sidebar})
}

// CreateAnswer handles POST /questions/question/:id
// @Summary Answer a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body AnswerRequest true "Answer"
// @Success 201 {object} service.AnswerCreated
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/question/{id} [post]
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.answerService.Create(c.UserContext(), service.CreateAnswerInput{
		UserID:     userIDFromLocals(c),
		QuestionID: id,
		Text:       req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Ask handles POST /ask
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AskRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Router /ask [post]
func (s *Server) Ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.Ask(c.UserContext(), service.AskInput{
		UserID: userIDFromLocals(c),
		Title:  req.Title,
		Text:   req.Text,
		Tags:   req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}
