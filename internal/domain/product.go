package domain

import "time"

// Product — товар каталога. Цены храним в минимальных единицах валюты (копейки/центы).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	SKU         string    `json:"sku"`
	Price       int64     `json:"price"`
	Images      []string  `json:"images"`
	Colors      []string  `json:"colors"`
	Sizes       []string  `json:"sizes"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
