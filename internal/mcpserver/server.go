// Package mcpserver exposes the trip store as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"trip-planner/internal/render"
	"trip-planner/internal/trips"
)

// CreateTripParams are the create_trip arguments.
type CreateTripParams struct {
	Destination string `json:"destination" mcp:"trip destination (required)"`
	StartDate   string `json:"start_date" mcp:"start date, YYYY-MM-DD (required)"`
	EndDate     string `json:"end_date" mcp:"end date, YYYY-MM-DD, not before start_date (required)"`
	Budget      string `json:"budget,omitempty" mcp:"non-negative budget in whole currency units (optional)"`
	Notes       string `json:"notes,omitempty" mcp:"free text notes (optional)"`
}

type ListTripsParams struct{}

// DeleteTripParams are the delete_trip arguments. Nothing is deleted unless
// Confirm is true.
type DeleteTripParams struct {
	ID      int64 `json:"id" mcp:"trip id as returned by create_trip or list_trips"`
	Confirm bool  `json:"confirm,omitempty" mcp:"must be true; ask the user before setting it"`
}

type DaysUntilParams struct {
	StartDate string `json:"start_date" mcp:"date to count down to, YYYY-MM-DD"`
}

// TripView is the JSON shape returned to clients.
type TripView struct {
	ID          int64  `json:"id"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Budget      string `json:"budget"`
	Notes       string `json:"notes,omitempty"`
	Countdown   string `json:"countdown"`
}

type Server struct {
	store  *trips.Store
	render *render.Renderer
}

func New(store *trips.Store, r *render.Renderer) *Server {
	return &Server{store: store, render: r}
}

// MCPServer builds an MCP server with all trip tools registered.
func (s *Server) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "trip-planner-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_trip",
		Description: "Adds a planned trip. Fails with a validation message when the destination or dates are missing or the start is after the end",
	}, s.CreateTrip)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_trips",
		Description: "Lists all trips ordered by start date with budget and countdown",
	}, s.ListTrips)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_trip",
		Description: "Deletes a trip by id. Requires confirm=true after the user has agreed; without it nothing is deleted",
	}, s.DeleteTrip)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "days_until",
		Description: "Tells how many days remain until a date: already past, departs today, or N days",
	}, s.DaysUntil)

	log.Printf("📋 Registered trip MCP tools: create_trip, list_trips, delete_trip, days_until")
	return server
}

func (s *Server) CreateTrip(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[CreateTripParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	trip, err := s.store.Create(ctx, trips.Candidate{
		Destination: args.Destination,
		StartDate:   args.StartDate,
		EndDate:     args.EndDate,
		Budget:      args.Budget,
		Notes:       args.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}
	log.Printf("✅ MCP: trip %d created: %q", trip.ID, trip.Destination)
	return jsonResult(s.view(trip))
}

func (s *Server) ListTrips(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListTripsParams]) (*mcp.CallToolResultFor[any], error) {
	views := []TripView{}
	for t := range s.store.List() {
		views = append(views, s.view(t))
	}
	return jsonResult(views)
}

func (s *Server) DeleteTrip(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[DeleteTripParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	trip, ok := s.store.Get(args.ID)
	if !ok {
		return textResult(fmt.Sprintf("Trip %d not found, nothing deleted", args.ID)), nil
	}
	if !args.Confirm {
		return textResult(fmt.Sprintf("Confirmation required: ask the user whether to delete trip %d (%s, %s), then call delete_trip again with confirm=true",
			trip.ID, trip.Destination, trip.StartDate)), nil
	}
	if err := s.store.Delete(ctx, args.ID); err != nil {
		return errorResult(err), nil
	}
	log.Printf("🗑️ MCP: trip %d deleted", args.ID)
	return textResult(fmt.Sprintf("Trip %d deleted", args.ID)), nil
}

func (s *Server) DaysUntil(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[DaysUntilParams]) (*mcp.CallToolResultFor[any], error) {
	d, err := trips.ParseDate(params.Arguments.StartDate)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(s.render.Countdown(s.store.DaysUntil(d))), nil
}

func (s *Server) view(t trips.Trip) TripView {
	return TripView{
		ID:          t.ID,
		Destination: t.Destination,
		StartDate:   t.StartDate.String(),
		EndDate:     t.EndDate.String(),
		Budget:      s.render.Budget(t.Budget),
		Notes:       t.Notes,
		Countdown:   s.render.Countdown(s.store.Countdown(t)),
	}
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "❌ " + err.Error()}},
	}
}

func jsonResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(data)), nil
}
