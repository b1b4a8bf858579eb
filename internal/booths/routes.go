package booths

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Reports
	r.Get("/get-ac-names", h.report("get-ac-names", func(ctx context.Context) (interface{}, error) {
		return h.reports.ConstituencyNames(ctx)
	}))
	r.Get("/get-pc-names", h.report("get-pc-names", func(ctx context.Context) (interface{}, error) {
		return h.reports.PcNames(ctx)
	}))
	r.Get("/get-pc-total", h.report("get-pc-total", func(ctx context.Context) (interface{}, error) {
		return h.reports.CountPcs(ctx)
	}))
	r.Get("/get-ac-total", h.report("get-ac-total", func(ctx context.Context) (interface{}, error) {
		return h.reports.CountConstituencies(ctx)
	}))
	r.Get("/get-booth-total", h.report("get-booth-total", func(ctx context.Context) (interface{}, error) {
		return h.reports.CountBooths(ctx)
	}))
	r.Get("/total-votes", h.report("total-votes", func(ctx context.Context) (interface{}, error) {
		return h.reports.TotalVotes(ctx)
	}))
	r.Get("/total-votes-by-booth-type", h.report("total-votes-by-booth-type", func(ctx context.Context) (interface{}, error) {
		return h.reports.TurnoutByBoothType(ctx)
	}))
	r.Get("/get-all-pcs-data", h.report("get-all-pcs-data", func(ctx context.Context) (interface{}, error) {
		return h.reports.PcBreakdown(ctx)
	}))
	r.Get("/votes-by-fav-ubt-other-percentage", h.report("votes-by-fav-ubt-other-percentage", func(ctx context.Context) (interface{}, error) {
		return h.reports.VoteShareByBoothType(ctx)
	}))
	r.Get("/total-polled-votes", h.report("total-polled-votes", func(ctx context.Context) (interface{}, error) {
		return h.reports.TotalPolledVotes(ctx)
	}))
	r.Get("/total-fav-votes", h.report("total-fav-votes", func(ctx context.Context) (interface{}, error) {
		return h.reports.TotalFavVotes(ctx)
	}))
	r.Get("/total-ubt-votes", h.report("total-ubt-votes", func(ctx context.Context) (interface{}, error) {
		return h.reports.TotalUbtVotes(ctx)
	}))

	// Booth records
	r.Post("/create", h.CreateBooth)
	r.Get("/get-booths", h.ListBooths)
	r.Get("/bybooth/{boothName}", h.BoothsByName)
	r.Get("/get-booth-names-by-constituency/{constituencyName}", h.BoothNamesByConstituency)
	r.Get("/byConstituency/{constituencyName}", h.BoothsByConstituency)
	r.Delete("/delete/{id}", h.DeleteBooth)
	r.Get("/{id}", h.GetBooth)
	r.Put("/{id}", h.UpdateBooth)

	return r
}
