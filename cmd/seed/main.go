// seed carga ubicaciones e ítems de ejemplo (con su stock inicial) en el almacén configurado.
//
// Uso: go run ./cmd/seed [ruta/seed.json]
// Por defecto lee cmd/seed/seed.json.
//
// Con STORE_DRIVER=postgres todo se escribe en una transacción, se crea el usuario admin
// (SEED_ADMIN_EMAIL) y se imprime un JWT para usar la API. Con STORE_DRIVER=pocketbase
// se escribe con el token de BACKEND_TOKEN, que debe pertenecer a un usuario existente.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/pocketbase"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/jwt"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

type seedFile struct {
	StorageLocations []seedLocation `json:"storage_locations"`
	Items            []seedItem     `json:"items"`
}

type seedLocation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    string `json:"position"`
	Location    string `json:"location"`
}

// seedItem referencia su ubicación por nombre.
type seedItem struct {
	Name            string          `json:"name"`
	Weight          decimal.Decimal `json:"weight"`
	Price           decimal.Decimal `json:"price"`
	StorageLocation string          `json:"storage_location"`
	InitialStock    int64           `json:"initial_stock"`
	Reason          string          `json:"reason"`
}

// repos mínimos que necesita el seed, comunes a ambos drivers.
type repos struct {
	locations repository.StorageLocationRepository
	items     repository.ItemRepository
	changes   repository.StockChangeRepository
}

func main() {
	path := "cmd/seed/seed.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := readSeed(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer seed: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		err = seedPostgres(ctx, cfg, log, data)
	default:
		err = seedPocketBase(ctx, cfg, log, data)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Int("storage_locations", len(data.StorageLocations)).
		Int("items", len(data.Items)).
		Msg("seed completado")
}

func readSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", path, err)
	}
	return &data, nil
}

func seedPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger, data *seedFile) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	admin := entity.User{Email: email, Name: "Administrador", Role: entity.RoleAdmin}

	// Sin publicador de eventos: no hay vistas abiertas durante el seed.
	err = postgres.NewTxRunner(pool, nil).Run(ctx, func(r postgres.Repos) error {
		if err := r.Users.Create(ctx, &admin); err != nil {
			return fmt.Errorf("crear admin %s: %w", email, err)
		}
		return apply(ctx, repos{locations: r.StorageLocations, items: r.Items, changes: r.StockChanges}, admin.ID, cfg.Store.StorageLocationSchema, data)
	})
	if err != nil {
		return err
	}

	token, err := jwt.Generate(cfg.JWT.Secret, admin.ID, admin.Role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		return fmt.Errorf("generar token: %w", err)
	}
	log.Info().Str("user_id", admin.ID).Str("email", email).Msg("usuario admin creado")
	fmt.Println(token)
	return nil
}

func seedPocketBase(ctx context.Context, cfg *config.Config, log *logger.Logger, data *seedFile) error {
	if cfg.Backend.Token == "" {
		return fmt.Errorf("BACKEND_TOKEN es obligatorio para sembrar el backend hospedado")
	}
	client := pocketbase.NewClient(pocketbase.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, log)

	session := auth.NewSession()
	svc := auth.NewSessionService(session, pocketbase.NewIdentity(client))
	defer svc.Close()

	user, err := svc.Login(ctx, cfg.Backend.Token)
	if err != nil {
		return fmt.Errorf("validar BACKEND_TOKEN: %w", err)
	}
	defer svc.Logout()
	log.Info().Str("user_id", user.ID).Bool("admin", svc.IsAdmin()).Msg("sembrando como")

	ctx = auth.WithToken(ctx, session.Token())
	return apply(ctx, repos{
		locations: pocketbase.NewStorageLocationRepo(client),
		items:     pocketbase.NewItemRepo(client),
		changes:   pocketbase.NewStockChangeRepo(client),
	}, user.ID, cfg.Store.StorageLocationSchema, data)
}

// apply crea las ubicaciones, luego los ítems y un cambio de stock inicial por ítem.
func apply(ctx context.Context, r repos, userID, schema string, data *seedFile) error {
	locationIDs := make(map[string]string, len(data.StorageLocations))
	for _, l := range data.StorageLocations {
		loc := &entity.StorageLocation{
			Name:        strings.TrimSpace(l.Name),
			Description: l.Description,
			Position:    l.Position,
			Location:    l.Location,
			Schema:      schema,
		}
		if err := r.locations.Create(ctx, loc); err != nil {
			return fmt.Errorf("ubicación %q: %w", l.Name, err)
		}
		locationIDs[strings.ToLower(loc.Name)] = loc.ID
	}

	for _, it := range data.Items {
		item := &entity.Item{
			Name:   strings.TrimSpace(it.Name),
			Weight: it.Weight,
			Price:  it.Price,
		}
		if it.StorageLocation != "" {
			id, ok := locationIDs[strings.ToLower(strings.TrimSpace(it.StorageLocation))]
			if !ok {
				return fmt.Errorf("ítem %q: ubicación %q no está en el seed", it.Name, it.StorageLocation)
			}
			item.StorageLocationID = id
		}
		if err := r.items.Create(ctx, item); err != nil {
			return fmt.Errorf("ítem %q: %w", it.Name, err)
		}
		if it.InitialStock == 0 {
			continue
		}
		reason := it.Reason
		if strings.TrimSpace(reason) == "" {
			reason = "stock inicial"
		}
		change := &entity.StockChange{ItemID: item.ID, Delta: it.InitialStock, Reason: reason, UserID: userID}
		if err := r.changes.Create(ctx, change); err != nil {
			return fmt.Errorf("stock inicial de %q: %w", it.Name, err)
		}
	}
	return nil
}
