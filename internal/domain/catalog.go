package domain

// Справочники админки: категории, цвета и размеры.
// Имена категорий — свободный текст, регистр и форма числа в данных
// исторически неконсистентны (см. трёхступенчатый поиск в store.Products).

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Color struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type Size struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}
