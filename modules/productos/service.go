package productos

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasbeta101/bether-backend-productos-sub000/binder"
	"github.com/lucasbeta101/bether-backend-productos-sub000/handler"
	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

// Repository is the catalog store used by the service.
type Repository interface {
	List(ctx context.Context, f catalog.Filter, p catalog.Page) ([]catalog.Product, error)
	Count(ctx context.Context, f catalog.Filter) (int64, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Create(ctx context.Context, d catalog.Draft) (catalog.Product, error)
	Update(ctx context.Context, id string, patch catalog.Patch) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo         Repository
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewService(repo Repository, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil, ErrorRules()...)
	}
	return &Service{repo: repo, errorHandler: errorHandler}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.list,
		handler.WithBinders[handler.Context, listRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, listRequest](s.errorHandler),
	))
	r.Post("/", handler.Wrap(s.create,
		handler.WithBinders[handler.Context, catalog.Draft](binder.JSON()),
		handler.WithErrorHandler[handler.Context, catalog.Draft](s.errorHandler),
	))
	r.Get("/{id}", handler.Wrap(s.get,
		handler.WithBinders[handler.Context, idRequest](binder.Path(nil)),
		handler.WithErrorHandler[handler.Context, idRequest](s.errorHandler),
	))
	r.Put("/{id}", handler.Wrap(s.update,
		handler.WithBinders[handler.Context, updateRequest](binder.Path(nil), binder.JSON()),
		handler.WithErrorHandler[handler.Context, updateRequest](s.errorHandler),
	))
	r.Delete("/{id}", handler.Wrap(s.delete,
		handler.WithBinders[handler.Context, idRequest](binder.Path(nil)),
		handler.WithErrorHandler[handler.Context, idRequest](s.errorHandler),
	))

	return r
}

type listRequest struct {
	Category string   `query:"category"`
	MinPrice *float64 `query:"minPrice"`
	MaxPrice *float64 `query:"maxPrice"`
	Offset   int64    `query:"offset"`
	Limit    int64    `query:"limit"`
}

type idRequest struct {
	ID string `path:"id"`
}

type updateRequest struct {
	ID string `path:"id" json:"-"`
	catalog.Patch
}

func (s *Service) list(ctx handler.Context, req listRequest) handler.Response {
	filter := catalog.Filter{
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}
	page := catalog.Page{Offset: req.Offset, Limit: req.Limit}.Normalize()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return handler.Error(err)
	}
	products, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return handler.Error(err)
	}

	return handler.JSON(products, handler.WithJSONMeta(map[string]any{
		"total":  total,
		"offset": page.Offset,
		"limit":  page.Limit,
	}))
}

func (s *Service) get(ctx handler.Context, req idRequest) handler.Response {
	p, err := s.repo.Get(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSONBody(p)
}

func (s *Service) create(ctx handler.Context, req catalog.Draft) handler.Response {
	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	ctx.ResponseWriter().Header().Set("Location", "/productos/"+p.ID)
	return handler.JSONBody(p, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Service) update(ctx handler.Context, req updateRequest) handler.Response {
	p, err := s.repo.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSONBody(p)
}

func (s *Service) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
