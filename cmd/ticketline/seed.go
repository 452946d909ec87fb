package main

import (
	"github.com/cimillas/ticketline/internal/config"
	"github.com/cimillas/ticketline/internal/domain"
	"github.com/cimillas/ticketline/internal/storage/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sampleEvents is the demo catalog. Seeding upserts, so re-running resets
// the remaining counters of these events.
var sampleEvents = []domain.Event{
	{
		ID:               "e001",
		Name:             "Summer Music Festival 2026",
		Description:      "An outdoor summer festival featuring top international musicians.",
		ImageURL:         "https://images.unsplash.com/photo-1470229722913-7c0e2dbbafd3?w=800",
		Performer:        "Global Artists Lineup",
		Venue:            "Central Park Open Grounds",
		City:             "New York, NY",
		Date:             "2026-07-15",
		Price:            129,
		Category:         "Music Festival",
		RemainingTickets: 500,
	},
	{
		ID:               "e002",
		Name:             "Tech Conference 2026",
		Description:      "Annual technology conference with AI, cloud computing, and software engineering sessions.",
		ImageURL:         "https://images.unsplash.com/photo-1505373877841-8d25f7d46678?w=800",
		Performer:        "Industry Leaders & Keynote Speakers",
		Venue:            "San Jose Convention Center",
		City:             "San Jose, CA",
		Date:             "2026-09-05",
		Price:            399,
		Category:         "Technology",
		RemainingTickets: 200,
	},
	{
		ID:               "e003",
		Name:             "Basketball Championship Finals",
		Description:      "Watch the intense finals of the professional basketball league!",
		ImageURL:         "https://images.unsplash.com/photo-1546519638-68e109498ffc?w=800",
		Performer:        "Pro League Finalists",
		Venue:            "Staples Center",
		City:             "Los Angeles, CA",
		Date:             "2026-06-12",
		Price:            250,
		Category:         "Sports",
		RemainingTickets: 1000,
	},
	{
		ID:               "e004",
		Name:             "Comedy Night Stand-Up",
		Description:      "Top comedians performing live stand-up comedy.",
		ImageURL:         "https://images.unsplash.com/photo-1508214751196-bcfd4ca60f91?w=800",
		Performer:        "Headliner Comedians",
		Venue:            "Downtown Theater Hall",
		City:             "Boston, MA",
		Date:             "2026-03-22",
		Price:            49,
		Category:         "Comedy",
		RemainingTickets: 150,
	},
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "load the sample event catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			config.LoadEnvFile(logger)
			cfg := config.Load(logger)

			pool, err := openPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := postgres.NewEventRepository(pool)
			for _, event := range sampleEvents {
				if err := repo.UpsertEvent(cmd.Context(), event); err != nil {
					return err
				}
				logger.Info("seeded event", zap.String("eventId", event.ID), zap.String("name", event.Name))
			}
			return nil
		},
	}
}
