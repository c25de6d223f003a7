package server

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/karupanerura/complex-calc/internal/session"
)

const basePath = "/v1/evaluations"

type evaluation struct {
	seq        uint64
	name       string
	createTime time.Time
	result     *session.Result
}

type evaluationJSON struct {
	Name       string    `json:"name"`
	CreateTime time.Time `json:"createTime"`
	session.ResultJSON
}

// MarshalJSON renders the result fields next to name and createTime.
func (e *evaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(evaluationJSON{
		Name:       e.name,
		CreateTime: e.createTime,
		ResultJSON: e.result.JSON(),
	})
}

type Server struct {
	app         *fiber.App
	evaluator   *session.Evaluator
	idBase      uint64
	evaluations sync.Map
}

func New(ev *session.Evaluator) *Server {
	s := &Server{evaluator: ev}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
	app.Post(basePath, s.createEvaluation)
	app.Get(basePath, s.listEvaluations)
	app.Get(basePath+"/:id", s.getEvaluation)

	s.app = app
	return s
}

func (s *Server) Listen(addr string) error {
	log.Printf("Listen HTTP on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

type createEvaluationRequest struct {
	Expression *string `json:"expression"`
}

func (s *Server) createEvaluation(c *fiber.Ctx) error {
	var req createEvaluationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Expression == nil {
		return errorResponse(c, fiber.StatusBadRequest, "expression is required")
	}

	seq := atomic.AddUint64(&s.idBase, 1)
	id := strconv.FormatUint(seq, 10)
	ev := &evaluation{
		seq:        seq,
		name:       basePath + "/" + id,
		createTime: time.Now().UTC(),
		result:     s.evaluator.Evaluate(*req.Expression),
	}
	s.evaluations.Store(id, ev)

	status := fiber.StatusOK
	if ev.result.Failed() {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(ev)
}

func (s *Server) listEvaluations(c *fiber.Ctx) error {
	results := []*evaluation{}
	s.evaluations.Range(func(_, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].seq < results[j].seq
	})

	return c.JSON(fiber.Map{"evaluations": results})
}

func (s *Server) getEvaluation(c *fiber.Ctx) error {
	ret, ok := s.evaluations.Load(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, "evaluation not found")
	}
	return c.JSON(ret.(*evaluation))
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    status,
			"message": message,
		},
	})
}
