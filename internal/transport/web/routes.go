package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roamly/roamly/internal/booking"
	"github.com/roamly/roamly/internal/query"
	"github.com/roamly/roamly/internal/state"
	"github.com/roamly/roamly/internal/travel"
)

var (
	destinationSortFields = map[string]string{
		"name":    "Name",
		"rating":  "Rating",
		"country": "Country",
	}

	packageSortFields = map[string]string{
		"name":          "Name",
		"price":         "Price",
		"duration":      "Duration",
		"availableFrom": "AvailableFrom",
	}

	destinationSearchFields = []string{"Name", "Country", "Description"}
	packageSearchFields     = []string{"Name", "Description"}
)

func (s *Server) addRoutes() {
	s.e.GET(s.conf.LivenessEndpoint, s.livenessHandler)

	api := s.e.Group("/api")

	api.GET("/destinations", s.listDestinationsHandler)
	api.GET("/destinations/countries", s.listCountriesHandler)
	api.GET("/destinations/with-packages", s.destinationsWithPackagesHandler)
	api.GET("/destinations/:id", s.getDestinationHandler)
	api.GET("/destinations/:id/packages", s.packagesByDestinationHandler)

	api.GET("/packages", s.listPackagesHandler)
	api.GET("/packages/:id", s.getPackageHandler)

	api.POST("/bookings", s.createBookingHandler)
	api.GET("/bookings", s.listBookingsHandler)
	api.GET("/bookings/:id", s.getBookingHandler)
	api.GET("/bookings/:id/cancellable", s.bookingCancellableHandler)
	api.POST("/bookings/:id/cancel", s.cancelBookingHandler)
	api.PATCH("/bookings/:id/status", s.updateBookingStatusHandler)
	api.DELETE("/bookings/:id", s.deleteBookingHandler)

	api.GET("/state", s.getStateHandler)
	api.POST("/state/dispatch", s.dispatchHandler)
}

func (s *Server) livenessHandler(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listDestinationsHandler(c echo.Context) error {
	items := s.destinations.All()

	if country := c.QueryParam("country"); country != "" {
		filtered := s.destinations.ByCountry(country)
		items = intersectDestinations(items, filtered)
	}

	if raw := c.QueryParam("minRating"); raw != "" {
		min, err := intQueryParam("minRating", raw)
		if err != nil {
			return s.respondError(c, err)
		}

		filtered, err := s.destinations.ByMinRating(min)
		if err != nil {
			return s.respondError(c, err)
		}

		items = intersectDestinations(items, filtered)
	}

	if term := c.QueryParam("search"); term != "" {
		items = query.FilterBySearchTerm(items, term, destinationSearchFields)
	}

	items, err := sortSlice(c, items, destinationSortFields)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (s *Server) listCountriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.destinations.Countries())
}

func (s *Server) destinationsWithPackagesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.destinations.WithPackageCounts(s.packages))
}

func (s *Server) getDestinationHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	dest, err := s.destinations.ByID(id)
	if err != nil {
		return s.respondError(c, err)
	}

	if dest == nil {
		return s.respondNotFound(c, "destination")
	}

	return c.JSON(http.StatusOK, dest)
}

func (s *Server) packagesByDestinationHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	items, err := s.packages.ByDestination(id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

//nolint:cyclop,funlen // one guarded block per query parameter
func (s *Server) listPackagesHandler(c echo.Context) error {
	items := s.packages.All()

	if raw := c.QueryParam("destinationId"); raw != "" {
		destinationID, err := intQueryParam("destinationId", raw)
		if err != nil {
			return s.respondError(c, err)
		}

		filtered, err := s.packages.ByDestination(destinationID)
		if err != nil {
			return s.respondError(c, err)
		}

		items = intersectPackages(items, filtered)
	}

	if raw := c.QueryParam("category"); raw != "" {
		filtered, err := s.packages.ByCategory(travel.PriceCategory(raw))
		if err != nil {
			return s.respondError(c, err)
		}

		items = intersectPackages(items, filtered)
	}

	minPrice, maxPrice := c.QueryParam("minPrice"), c.QueryParam("maxPrice")
	if minPrice != "" || maxPrice != "" {
		min, max, err := priceRange(minPrice, maxPrice)
		if err != nil {
			return s.respondError(c, err)
		}

		filtered, err := s.packages.ByPriceRange(min, max)
		if err != nil {
			return s.respondError(c, err)
		}

		items = intersectPackages(items, filtered)
	}

	minDuration, maxDuration := c.QueryParam("minDuration"), c.QueryParam("maxDuration")
	if minDuration != "" || maxDuration != "" {
		min, max, err := durationRange(minDuration, maxDuration)
		if err != nil {
			return s.respondError(c, err)
		}

		filtered, err := s.packages.ByDurationRange(min, max)
		if err != nil {
			return s.respondError(c, err)
		}

		items = intersectPackages(items, filtered)
	}

	if c.QueryParam("available") == "true" {
		items = intersectPackages(items, s.packages.Available())
	}

	if term := c.QueryParam("search"); term != "" {
		items = query.FilterBySearchTerm(items, term, packageSearchFields)
	}

	items, err := sortSlice(c, items, packageSortFields)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (s *Server) getPackageHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	pkg, err := s.packages.ByID(id)
	if err != nil {
		return s.respondError(c, err)
	}

	if pkg == nil {
		return s.respondNotFound(c, "package")
	}

	return c.JSON(http.StatusOK, pkg)
}

func (s *Server) createBookingHandler(c echo.Context) error {
	var input booking.CreateInput

	if err := c.Bind(&input); err != nil {
		inputErr := travel.NewInputError()
		inputErr.AddError("body", "could not parse request body")

		return s.respondError(c, inputErr)
	}

	created, err := s.bookings.Create(c.Request().Context(), input)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) listBookingsHandler(c echo.Context) error {
	if raw := c.QueryParam("userId"); raw != "" {
		userID, err := intQueryParam("userId", raw)
		if err != nil {
			return s.respondError(c, err)
		}

		items, err := s.bookings.ListByUser(userID)
		if err != nil {
			return s.respondError(c, err)
		}

		return c.JSON(http.StatusOK, items)
	}

	return c.JSON(http.StatusOK, s.bookings.List())
}

func (s *Server) getBookingHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	found, err := s.bookings.ByID(id)
	if err != nil {
		return s.respondError(c, err)
	}

	if found == nil {
		return s.respondNotFound(c, "booking")
	}

	return c.JSON(http.StatusOK, found)
}

func (s *Server) bookingCancellableHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	cancellable, err := s.bookings.CanCancel(id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"cancellable": cancellable})
}

func (s *Server) cancelBookingHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	cancelled, err := s.bookings.Cancel(c.Request().Context(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	if cancelled == nil {
		return s.respondNotFound(c, "booking")
	}

	return c.JSON(http.StatusOK, cancelled)
}

type updateStatusRequest struct {
	Status travel.BookingStatus `json:"status"`
}

func (s *Server) updateBookingStatusHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		inputErr := travel.NewInputError()
		inputErr.AddError("body", "could not parse request body")

		return s.respondError(c, inputErr)
	}

	updated, err := s.bookings.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return s.respondError(c, err)
	}

	if updated == nil {
		return s.respondNotFound(c, "booking")
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteBookingHandler(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return s.respondError(c, err)
	}

	removed, err := s.bookings.Delete(c.Request().Context(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	if !removed {
		return s.respondNotFound(c, "booking")
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getStateHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.state.Get())
}

type dispatchRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) dispatchHandler(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		inputErr := travel.NewInputError()
		inputErr.AddError("body", "could not parse request body")

		return s.respondError(c, inputErr)
	}

	action, err := decodeAction(req)
	if err != nil {
		return s.respondError(c, err)
	}

	s.state.Dispatch(action)

	return c.JSON(http.StatusOK, s.state.Get())
}

// decodeAction turns the wire form into a typed action. Types that carry no
// payload, and unknown types, pass through; the store decides what to do with
// them.
func decodeAction(req dispatchRequest) (state.Action, error) {
	zero := state.Action{Type: req.Type, Payload: nil}

	switch req.Type {
	case state.ActionLogin:
		var user *travel.User
		if err := decodePayload(req.Payload, &user); err != nil {
			return zero, err
		}

		return state.Login(user), nil
	case state.ActionSelectDestination:
		var dest *travel.Destination
		if err := decodePayload(req.Payload, &dest); err != nil {
			return zero, err
		}

		return state.SelectDestination(dest), nil
	case state.ActionSelectPackage:
		var pkg *travel.Package
		if err := decodePayload(req.Payload, &pkg); err != nil {
			return zero, err
		}

		return state.SelectPackage(pkg), nil
	case state.ActionAddToCart:
		var item travel.Booking
		if err := decodePayload(req.Payload, &item); err != nil {
			return zero, err
		}

		return state.AddToCart(item), nil
	case state.ActionSetLoading:
		var isLoading bool
		if err := decodePayload(req.Payload, &isLoading); err != nil {
			return zero, err
		}

		return state.SetLoading(isLoading), nil
	case state.ActionSetError:
		var msg string
		if err := decodePayload(req.Payload, &msg); err != nil {
			return zero, err
		}

		return state.SetError(msg), nil
	default:
		return zero, nil
	}
}

func decodePayload(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, into); err != nil {
		inputErr := travel.NewInputError()
		inputErr.AddError("payload", "payload does not match the action type")

		return inputErr
	}

	return nil
}

func (s *Server) respondError(c echo.Context, err error) error {
	if inputErr := travel.IsInputError(err); inputErr != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"errors": inputErr.Fields()})
	}

	if errors.Is(err, travel.ErrInvalidTransition) {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}

	s.l.LogErrorf("Request failed: %v", err.Error())

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": http.StatusText(http.StatusInternalServerError),
	})
}

func (s *Server) respondNotFound(c echo.Context, kind string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": kind + " not found"})
}

func idParam(c echo.Context) (int, error) {
	return intQueryParam("id", c.Param("id"))
}

func intQueryParam(name, raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		inputErr := travel.NewInputError()
		inputErr.AddError(name, "must be an integer")

		return 0, inputErr
	}

	return value, nil
}

func priceRange(rawMin, rawMax string) (float64, float64, error) {
	min, max := 0.0, 1_000_000.0

	var err error

	if rawMin != "" {
		if min, err = strconv.ParseFloat(rawMin, 64); err != nil {
			return 0, 0, numberError("minPrice")
		}
	}

	if rawMax != "" {
		if max, err = strconv.ParseFloat(rawMax, 64); err != nil {
			return 0, 0, numberError("maxPrice")
		}
	}

	return min, max, nil
}

func durationRange(rawMin, rawMax string) (int, int, error) {
	min, max := 1, 30

	var err error

	if rawMin != "" {
		if min, err = strconv.Atoi(rawMin); err != nil {
			return 0, 0, numberError("minDuration")
		}
	}

	if rawMax != "" {
		if max, err = strconv.Atoi(rawMax); err != nil {
			return 0, 0, numberError("maxDuration")
		}
	}

	return min, max, nil
}

func numberError(field string) error {
	inputErr := travel.NewInputError()
	inputErr.AddError(field, "must be a number")

	return inputErr
}

func sortSlice[T any](c echo.Context, items []T, fields map[string]string) ([]T, error) {
	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		return items, nil
	}

	field, ok := fields[sortBy]
	if !ok {
		inputErr := travel.NewInputError()
		inputErr.AddError("sortBy", "unsupported sort field")

		return nil, inputErr
	}

	order := query.OrderAsc
	if raw := c.QueryParam("order"); raw != "" {
		order = query.Order(raw)
		if order != query.OrderAsc && order != query.OrderDesc {
			inputErr := travel.NewInputError()
			inputErr.AddError("order", "order must be asc or desc")

			return nil, inputErr
		}
	}

	return query.SortBy(items, field, order), nil
}

func intersectDestinations(base, keep []travel.Destination) []travel.Destination {
	ids := make(map[int]struct{}, len(keep))
	for _, item := range keep {
		ids[item.ID] = struct{}{}
	}

	out := make([]travel.Destination, 0, len(base))

	for _, item := range base {
		if _, ok := ids[item.ID]; ok {
			out = append(out, item)
		}
	}

	return out
}

func intersectPackages(base, keep []travel.Package) []travel.Package {
	ids := make(map[int]struct{}, len(keep))
	for _, item := range keep {
		ids[item.ID] = struct{}{}
	}

	out := make([]travel.Package, 0, len(base))

	for _, item := range base {
		if _, ok := ids[item.ID]; ok {
			out = append(out, item)
		}
	}

	return out
}
