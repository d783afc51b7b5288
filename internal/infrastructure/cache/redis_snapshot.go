// Package cache guarda en Redis el snapshot de documentos de cada empresa.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-backoffice/internal/application/billing"
	"github.com/jhoicas/obras-backoffice/internal/domain/entity"
)

var _ billing.SnapshotCache = (*RedisSnapshotCache)(nil)

const (
	keyPrefix = "obras:invoices:snapshot:"
	genPrefix = "obras:invoices:gen:"
)

func snapshotKey(companyID string) string { return keyPrefix + companyID }

func generationKey(companyID string) string { return genPrefix + companyID }

// setIfGeneration escribe el snapshot solo si la generación no cambió.
// KEYS[1] snapshot, KEYS[2] generación; ARGV[1] generación esperada, ARGV[2] payload, ARGV[3] ttl en ms.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if (current or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// NewRedis crea el cliente y valida la conexión al arrancar.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// RedisSnapshotCache implementa billing.SnapshotCache con una clave JSON por empresa.
type RedisSnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSnapshotCache ttl <= 0 usa 5 minutos.
func NewRedisSnapshotCache(rdb *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSnapshotCache{rdb: rdb, ttl: ttl}
}

func (c *RedisSnapshotCache) Get(ctx context.Context, companyID string) ([]*entity.Invoice, bool, error) {
	b, err := c.rdb.Get(ctx, snapshotKey(companyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	list, err := decodeSnapshot(b)
	if err != nil {
		// Entrada corrupta o de otra versión: se trata como ausente.
		return nil, false, nil
	}
	return list, true, nil
}

// Generation generación vigente de la empresa; 0 si nunca hubo mutaciones.
func (c *RedisSnapshotCache) Generation(ctx context.Context, companyID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(companyID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSnapshotCache) Set(ctx context.Context, companyID string, generation int64, invoices []*entity.Invoice) (bool, error) {
	b, err := encodeSnapshot(invoices)
	if err != nil {
		return false, err
	}
	n, err := setIfGeneration.Run(ctx, c.rdb,
		[]string{snapshotKey(companyID), generationKey(companyID)},
		strconv.FormatInt(generation, 10), b, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis: guardar snapshot: %w", err)
	}
	return n == 1, nil
}

// Invalidate incrementa la generación y borra el snapshot en una sola transacción.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, companyID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(companyID))
		pipe.Del(ctx, snapshotKey(companyID))
		return nil
	})
	return err
}

// cachedInvoice forma serializada; la entidad de dominio no lleva tags.
type cachedInvoice struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	ClientID         string          `json:"client_id,omitempty"`
	ClientName       string          `json:"client_name,omitempty"`
	ProjectID        string          `json:"project_id,omitempty"`
	Number           string          `json:"number"`
	Date             string          `json:"date"`
	Type             string          `json:"type"`
	RelatedInvoiceID string          `json:"related_invoice_id,omitempty"`
	Status           string          `json:"status"`
	Paid             bool            `json:"paid"`
	Description      string          `json:"description,omitempty"`
	Net              decimal.Decimal `json:"net"`
	IVA              decimal.Decimal `json:"iva"`
	Total            decimal.Decimal `json:"total"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func encodeSnapshot(list []*entity.Invoice) ([]byte, error) {
	out := make([]cachedInvoice, 0, len(list))
	for _, inv := range list {
		out = append(out, cachedInvoice{
			ID:               inv.ID,
			CompanyID:        inv.CompanyID,
			ClientID:         inv.ClientID,
			ClientName:       inv.ClientName,
			ProjectID:        inv.ProjectID,
			Number:           inv.Number,
			Date:             inv.DateKey(),
			Type:             string(inv.Type),
			RelatedInvoiceID: inv.RelatedInvoiceID,
			Status:           string(inv.Status),
			Paid:             inv.Paid,
			Description:      inv.Description,
			Net:              inv.Net,
			IVA:              inv.IVA,
			Total:            inv.Total,
			CreatedAt:        inv.CreatedAt,
			UpdatedAt:        inv.UpdatedAt,
		})
	}
	return json.Marshal(out)
}

func decodeSnapshot(b []byte) ([]*entity.Invoice, error) {
	var in []cachedInvoice
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, err
	}
	out := make([]*entity.Invoice, 0, len(in))
	for _, c := range in {
		d, err := time.Parse(entity.DateLayout, c.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.Invoice{
			ID:               c.ID,
			CompanyID:        c.CompanyID,
			ClientID:         c.ClientID,
			ClientName:       c.ClientName,
			ProjectID:        c.ProjectID,
			Number:           c.Number,
			Date:             d,
			Type:             entity.InvoiceType(c.Type),
			RelatedInvoiceID: c.RelatedInvoiceID,
			Status:           entity.InvoiceStatus(c.Status),
			Paid:             c.Paid,
			Description:      c.Description,
			Net:              c.Net,
			IVA:              c.IVA,
			Total:            c.Total,
			CreatedAt:        c.CreatedAt,
			UpdatedAt:        c.UpdatedAt,
		})
	}
	return out, nil
}
