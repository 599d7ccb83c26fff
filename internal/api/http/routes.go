package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/area-weather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, aggregator *weather.Aggregator) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/area", func(c *fiber.Ctx) error {
		loc, err := parseAreaQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := aggregator.RunSingle(c.UserContext(), loc)
		if err != nil {
			return fiber.NewError(statusFor(res.Err), res.Reason())
		}

		return c.JSON(toResultDTO(res))
	})

	v1.Post("/weather/batch", func(c *fiber.Ctx) error {
		var req batchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		batch := aggregator.RunBatch(c.UserContext(), req.Locations)

		resp := batchResponse{
			BatchID:  batch.ID,
			Results:  make([]resultDTO, 0, len(batch.Results)),
			Failures: make([]failureDTO, 0, len(batch.Failures)),
		}
		for _, r := range batch.Results {
			resp.Results = append(resp.Results, toResultDTO(r))
		}
		for _, r := range batch.Failures {
			resp.Failures = append(resp.Failures, failureDTO{Name: r.Name, Reason: r.Reason()})
		}

		return c.JSON(resp)
	})
}

// areaQuery holds query parameters of the area endpoint.
type areaQuery struct {
	City string  `validate:"required,excludes=:"`
	Km   float64 `validate:"gt=0"`
}

func parseAreaQuery(c *fiber.Ctx) (weather.Location, error) {
	q := areaQuery{City: c.Query("city")}

	if km := c.Query("km"); km != "" {
		v, err := strconv.ParseFloat(km, 64)
		if err != nil {
			return weather.Location{}, errors.New("km must be a number")
		}
		q.Km = v
	}

	if err := validate.Struct(q); err != nil {
		return weather.Location{}, err
	}

	return weather.Location{Name: q.City, RadiusKm: q.Km}, nil
}

type batchRequest struct {
	Locations []weather.Location `json:"locations" validate:"required,min=1,max=100,dive"`
}

type resultDTO struct {
	Name         string  `json:"name"`
	TemperatureC int     `json:"temperatureC"`
	AverageTempC float64 `json:"averageTempC"`
}

type failureDTO struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type batchResponse struct {
	BatchID  string       `json:"batchId"`
	Results  []resultDTO  `json:"results"`
	Failures []failureDTO `json:"failures"`
}

func toResultDTO(r weather.LocationResult) resultDTO {
	return resultDTO{
		Name:         r.Name,
		TemperatureC: *r.TemperatureC,
		AverageTempC: *r.AverageTempC,
	}
}

// statusFor maps a pipeline failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, weather.ErrEmpty),
		errors.Is(err, weather.ErrInvalidRadius),
		errors.Is(err, weather.ErrGeometryUndefined):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, weather.ErrProviderFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
