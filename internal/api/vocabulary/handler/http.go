package vocabularyHandler

import (
	vocabularyRepository "SignCoach/internal/api/vocabulary/repository"
	"SignCoach/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type VocabularyHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	vocabulary vocabularyRepository.IVocabulary
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	vocabulary vocabularyRepository.IVocabulary,
) *VocabularyHandler {
	return &VocabularyHandler{
		log:        log,
		middleware: middleware,
		vocabulary: vocabulary,
	}
}

func (h *VocabularyHandler) Start(srv fiber.Router) {
	signs := srv.Group("/signs")
	signs.Get("/", h.ListSigns)
	signs.Get("/:id", h.GetSign)
}
