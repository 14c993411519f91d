package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// KardexPDFGenerator es el puerto de generación del kardex en PDF: el
// historial de asientos de un producto con su balance corrido.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, entries []*entity.LedgerEntry) ([]byte, error)
}

// KardexPDFUseCase arma el kardex de un producto y lo entrega en PDF.
type KardexPDFUseCase struct {
	productRepo repository.ProductRepository
	entryRepo   repository.LedgerEntryRepository
	generator   KardexPDFGenerator
}

// NewKardexPDFUseCase construye el caso de uso.
func NewKardexPDFUseCase(
	productRepo repository.ProductRepository,
	entryRepo repository.LedgerEntryRepository,
	generator KardexPDFGenerator,
) *KardexPDFUseCase {
	return &KardexPDFUseCase{productRepo: productRepo, entryRepo: entryRepo, generator: generator}
}

// Generate genera el PDF del kardex del producto y devuelve sus bytes junto
// con el nombre de archivo sugerido.
func (uc *KardexPDFUseCase) Generate(ctx context.Context, productID string) ([]byte, string, error) {
	if productID == "" {
		return nil, "", domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", domain.ErrNotFound
	}
	entries, err := uc.entryRepo.ListByProduct(productID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateKardexPDF(ctx, product, entries)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("kardex_%s_%s.pdf", product.Code, time.Now().Format("20060102"))
	return pdf, filename, nil
}
