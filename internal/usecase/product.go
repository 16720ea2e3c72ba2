package usecase

import (
	"context"
	"errors"

	"authapi/apperror"
	"authapi/dto"
	"authapi/internal/repository"
	"authapi/model"
)

type ProductUsecase interface {
	CreateProduct(ctx context.Context, input *dto.ProductInput) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uint) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uint, input *dto.ProductInput) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type productUsecase struct {
	products repository.ProductRepository
}

func NewProductUsecase(products repository.ProductRepository) ProductUsecase {
	return &productUsecase{products}
}

func (u *productUsecase) CreateProduct(ctx context.Context, input *dto.ProductInput) (*dto.ProductResponse, error) {
	if input.Name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	if input.Price < 0 {
		return nil, apperror.BadRequest("price must not be negative")
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	}
	if err := u.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (u *productUsecase) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := u.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *toProductResponse(&products[i]))
	}
	return responses, nil
}

func (u *productUsecase) GetProduct(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	product, err := u.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, err
	}
	return toProductResponse(product), nil
}

func (u *productUsecase) UpdateProduct(ctx context.Context, id uint, input *dto.ProductInput) (*dto.ProductResponse, error) {
	product, err := u.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}

	if err := u.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (u *productUsecase) DeleteProduct(ctx context.Context, id uint) error {
	if err := u.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("product not found")
		}
		return err
	}
	return nil
}

func toProductResponse(product *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
