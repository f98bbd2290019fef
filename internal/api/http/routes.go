package httpapi

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sharkmet/HomeHUB/internal/cache"
	"github.com/sharkmet/HomeHUB/internal/classify"
	"github.com/sharkmet/HomeHUB/internal/datalog"
	"github.com/sharkmet/HomeHUB/internal/observability"
	"github.com/sharkmet/HomeHUB/internal/readings"
	"github.com/sharkmet/HomeHUB/internal/weather"
	"github.com/sharkmet/HomeHUB/internal/zones"
)

var validate = validator.New()

// receivedAtLayout is the human-readable timestamp format the dashboard
// expects.
const receivedAtLayout = "2006-01-02 15:04:05"

const weatherTimeout = 10 * time.Second

// Deps bundles everything the HTTP handlers need. The reading store is the
// only shared mutable state; everything else is read-only or internally
// synchronized.
type Deps struct {
	Store      *readings.Store
	Directory  *zones.Directory
	Policy     zones.UnassignedPolicy
	Classifier *classify.Classifier
	Weather    *cache.Cache[weather.Bundle]
	Log        datalog.Sink

	// FetchWeather is the upstream call the cache guards.
	FetchWeather func(ctx context.Context) (weather.Bundle, error)

	// TrustDeviceTime makes ingestion honor a device-supplied reported_at
	// instead of arrival time.
	TrustDeviceTime bool

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// sensorReport is the inbound device report body.
type sensorReport struct {
	DeviceName string             `json:"device_name" validate:"required"`
	Sensors    map[string]float64 `json:"sensors"`
	ReportedAt *int64             `json:"reported_at"`
}

// roomView is one zone's merged, classified snapshot as served to the
// dashboard.
type roomView struct {
	Sensors    map[string]any `json:"sensors"`
	ReceivedAt string         `json:"received_at"`
}

func makeRoomView(cl *classify.Classifier, rec readings.ZoneRecord) roomView {
	return roomView{
		Sensors:    cl.Annotate(rec.Values()),
		ReceivedAt: rec.LastUpdated.Format(receivedAtLayout),
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}

	app.Post("/sensor-data", func(c *fiber.Ctx) error {
		var req sensorReport
		if err := c.BodyParser(&req); err != nil {
			observability.ReportsRejected.Inc()
			return fiber.NewError(fiber.StatusBadRequest, "invalid report body")
		}
		if err := validate.Struct(req); err != nil {
			observability.ReportsRejected.Inc()
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		receivedAt := d.Now().UTC()
		if d.TrustDeviceTime && req.ReportedAt != nil {
			receivedAt = time.Unix(*req.ReportedAt, 0).UTC()
		}

		zone, assigned := d.Directory.ZoneFor(req.DeviceName)
		if !assigned {
			switch d.Policy {
			case zones.PolicyReject:
				observability.ReportsRejected.Inc()
				return fiber.NewError(fiber.StatusUnprocessableEntity, "device not assigned to any zone")
			case zones.PolicyAutoZone:
				zone, assigned = req.DeviceName, true
			default:
				observability.UnassignedDevices.Inc()
			}
		}

		observability.ReportsReceived.Inc()
		d.Store.RecordDevice(req.DeviceName, req.Sensors, receivedAt)
		if assigned && len(req.Sensors) > 0 {
			d.Store.Merge(zone, req.DeviceName, req.Sensors, receivedAt)
		}

		// Best effort; the sink never blocks or fails the response.
		d.Log.Append(datalog.Entry{
			DeviceName: req.DeviceName,
			Sensors:    req.Sensors,
			ReceivedAt: receivedAt,
		})

		return c.JSON(fiber.Map{
			"status":      "success",
			"device_name": req.DeviceName,
		})
	})

	app.Get("/latest", func(c *fiber.Ctx) error {
		latest := d.Store.LatestByDevice()
		out := make(fiber.Map, len(latest))
		for device, rep := range latest {
			out[device] = fiber.Map{
				"sensors":     rep.Sensors,
				"received_at": rep.ReceivedAt.Format(receivedAtLayout),
			}
		}
		return c.JSON(out)
	})

	api := app.Group("/api")

	api.Get("/rooms", func(c *fiber.Ctx) error {
		records := d.Store.SnapshotAll()
		rooms := make(map[string]roomView, len(records))
		for zone, rec := range records {
			rooms[zone] = makeRoomView(d.Classifier, rec)
		}

		// The dashboard renders with whatever weather we have; a failed
		// fetch with an empty cache just leaves the field null.
		var weatherData any
		ctx, cancel := context.WithTimeout(c.UserContext(), weatherTimeout)
		defer cancel()
		if bundle, err := d.Weather.Get(ctx, d.FetchWeather); err == nil {
			weatherData = bundle
		} else {
			observability.WeatherFetchFailures.Inc()
		}

		return c.JSON(fiber.Map{
			"rooms":   rooms,
			"weather": weatherData,
		})
	})

	api.Get("/rooms/:room", func(c *fiber.Ctx) error {
		room := c.Params("room")
		if unescaped, err := url.PathUnescape(room); err == nil {
			room = unescaped
		}

		rec, err := d.Store.Snapshot(room)
		if err != nil {
			if errors.Is(err, readings.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for room")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read room data")
		}

		return c.JSON(makeRoomView(d.Classifier, rec))
	})

	api.Get("/weather", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), weatherTimeout)
		defer cancel()

		bundle, err := d.Weather.Get(ctx, d.FetchWeather)
		if err != nil {
			observability.WeatherFetchFailures.Inc()
			return fiber.NewError(fiber.StatusBadGateway, "weather data unavailable")
		}
		return c.JSON(bundle)
	})
}
