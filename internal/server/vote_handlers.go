package server

import (
	"log/slog"

	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VoteRequest is the body of POST /vote.
type VoteRequest struct {
	ID   string `json:"id" form:"id"`
	Vote string `json:"vote" form:"vote"`
	Type string `json:"type" form:"type"`
}

// VoteResponse carries the new net score of the target.
type VoteResponse struct {
	Likes int `json:"likes"`
}

// CorrectRequest is the body of POST /correct.
type CorrectRequest struct {
	ID      string `json:"id" form:"id"`
	Correct string `json:"correct" form:"correct"`
}

// CorrectResponse echoes the stored flag.
type CorrectResponse struct {
	Correct string `json:"correct"`
}

// ajaxNotFound is the single failure shape of the vote and correctness endpoints.
func ajaxNotFound(c *fiber.Ctx, err error) error {
	if err != nil && models.ErrorCode(err) == "" {
		middleware.Logger.ErrorContext(c.UserContext(), "ajax request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: "Not found",
		Code:  models.CodeNotFound,
	})
}

// Vote handles POST /vote
// @Summary Vote on a question or answer
// @Description Repeating the same vote withdraws it; the opposite vote flips it
// @Tags votes
// @Accept json
// @Produce json
// @Param request body VoteRequest true "Vote"
// @Success 200 {object} VoteResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /vote [post]
func (s *Server) Vote(c *fiber.Ctx) error {
	var req VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return ajaxNotFound(c, nil)
	}
	id, ok := formID(req.ID)
	if !ok {
		return ajaxNotFound(c, nil)
	}

	result, err := s.voteService.ApplyVote(c.UserContext(), service.ApplyVoteInput{
		UserID:   userIDFromLocals(c),
		Target:   req.Type,
		TargetID: id,
		Choice:   req.Vote,
	})
	if err != nil {
		return ajaxNotFound(c, err)
	}
	return c.JSON(VoteResponse{Likes: result.Score})
}

// MarkCorrect handles POST /correct
// @Summary Mark an answer correct
// @Description Only the author of the question may change the flag
// @Tags votes
// @Accept json
// @Produce json
// @Param request body CorrectRequest true "Flag"
// @Success 200 {object} CorrectResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /correct [post]
func (s *Server) MarkCorrect(c *fiber.Ctx) error {
	var req CorrectRequest
	if err := c.BodyParser(&req); err != nil {
		return ajaxNotFound(c, nil)
	}
	id, ok := formID(req.ID)
	if !ok {
		return ajaxNotFound(c, nil)
	}

	var correct bool
	switch req.Correct {
	case "true":
		correct = true
	case "false":
	default:
		return ajaxNotFound(c, nil)
	}

	err := s.answerService.MarkCorrect(c.UserContext(), service.MarkCorrectInput{
		UserID:   userIDFromLocals(c),
		AnswerID: id,
		Correct:  correct,
	})
	if err != nil {
		return ajaxNotFound(c, err)
	}
	return c.JSON(CorrectResponse{Correct: req.Correct})
}
