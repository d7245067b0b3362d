package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// state datos del almacén. Las entidades guardadas nunca se mutan en sitio (se reemplazan),
// así que clonar el estado solo copia los mapas.
type state struct {
	products  map[string]*entity.Product
	locales   map[string]*entity.Locale
	transfers map[string]*entity.Transfer
	stats     *entity.Stats
}

func newState() *state {
	return &state{
		products:  make(map[string]*entity.Product),
		locales:   make(map[string]*entity.Locale),
		transfers: make(map[string]*entity.Transfer),
		stats:     &entity.Stats{},
	}
}

func (s *state) clone() *state {
	cp := &state{
		products:  make(map[string]*entity.Product, len(s.products)),
		locales:   make(map[string]*entity.Locale, len(s.locales)),
		transfers: make(map[string]*entity.Transfer, len(s.transfers)),
		stats:     s.stats,
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.locales {
		cp.locales[k] = v
	}
	for k, v := range s.transfers {
		cp.transfers[k] = v
	}
	return cp
}

// Store almacén local en memoria de un solo proceso. Las transacciones se serializan con un mutex
// y trabajan sobre una copia del estado que solo se publica si fn termina sin error.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve repositorios de acceso directo (cada llamada es atómica por sí sola).
func (s *Store) Repositories() repository.Repositories {
	return s.bind(view{mu: &s.mu, state: func() *state { return s.st }})
}

// Run ejecuta fn con repositorios atados a una copia del estado y la publica al terminar sin error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.st.clone()
	repos := s.bind(view{mu: noLock{}, state: func() *state { return scratch }})
	if err := fn(ctx, repos); err != nil {
		return err
	}
	s.st = scratch
	return nil
}

func (s *Store) bind(v view) repository.Repositories {
	return repository.Repositories{
		Products:  &ProductRepo{v: v},
		Locales:   &LocaleRepo{v: v},
		Transfers: &TransferRepo{v: v},
		Stats:     &StatsRepo{v: v},
	}
}

// view acceso a un estado: el vivo (con lock por llamada) o la copia de una tx (sin lock).
type view struct {
	mu    sync.Locker
	state func() *state
}

func (v view) with(fn func(st *state) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fn(v.state())
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if strings.EqualFold(other.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = p.Clone()
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		out = st.products[id].Clone()
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				out = p.Clone()
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.NotFound("producto", p.ID)
		}
		for id, other := range st.products {
			if id != p.ID && strings.EqualFold(other.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = p.Clone()
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(func(st *state) error {
		out = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			out = append(out, p.Clone())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.v.with(func(st *state) error {
		delete(st.products, id)
		return nil
	})
}

// LocaleRepo implementación en memoria de LocaleRepository.
type LocaleRepo struct{ v view }

func (r *LocaleRepo) Create(_ context.Context, l *entity.Locale) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.locales[l.ID]; ok {
			return domain.ErrDuplicate
		}
		st.locales[l.ID] = l.Clone()
		return nil
	})
}

func (r *LocaleRepo) GetByID(_ context.Context, id string) (*entity.Locale, error) {
	var out *entity.Locale
	err := r.v.with(func(st *state) error {
		out = st.locales[id].Clone()
		return nil
	})
	return out, err
}

func (r *LocaleRepo) Update(_ context.Context, l *entity.Locale) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.locales[l.ID]; !ok {
			return domain.NotFound("local", l.ID)
		}
		st.locales[l.ID] = l.Clone()
		return nil
	})
}

func (r *LocaleRepo) List(_ context.Context) ([]*entity.Locale, error) {
	var out []*entity.Locale
	err := r.v.with(func(st *state) error {
		out = make([]*entity.Locale, 0, len(st.locales))
		for _, l := range st.locales {
			out = append(out, l.Clone())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *LocaleRepo) Delete(_ context.Context, id string) error {
	return r.v.with(func(st *state) error {
		delete(st.locales, id)
		return nil
	})
}

// TransferRepo implementación en memoria de TransferRepository.
type TransferRepo struct{ v view }

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *t
		st.transfers[t.ID] = &cp
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.v.with(func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			cp := *t
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) Delete(_ context.Context, id string) error {
	return r.v.with(func(st *state) error {
		delete(st.transfers, id)
		return nil
	})
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	err := r.v.with(func(st *state) error {
		needle := strings.ToLower(f.ProductName)
		for _, t := range st.transfers {
			if f.From != nil && t.Timestamp.Before(*f.From) {
				continue
			}
			if f.To != nil && t.Timestamp.After(*f.To) {
				continue
			}
			if f.DestinationID != "" && t.Destination.String() != f.DestinationID {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(t.ProductName), needle) {
				continue
			}
			cp := *t
			out = append(out, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func paginate(items []*entity.Transfer, limit, offset int) []*entity.Transfer {
	if offset >= len(items) {
		return []*entity.Transfer{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// StatsRepo implementación en memoria de StatsRepository.
type StatsRepo struct{ v view }

func (r *StatsRepo) Get(_ context.Context) (*entity.Stats, error) {
	var out *entity.Stats
	err := r.v.with(func(st *state) error {
		out = st.stats.Clone()
		return nil
	})
	return out, err
}

func (r *StatsRepo) Save(_ context.Context, s *entity.Stats) error {
	return r.v.with(func(st *state) error {
		st.stats = s.Clone()
		return nil
	})
}
