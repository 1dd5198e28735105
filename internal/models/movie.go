package models

type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Director struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	BirthYear int    `json:"birthYear,omitempty"`
}

// Movie is a catalog entry. Movies are read-only through the API.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       Genre    `json:"genre"`
	Director    Director `json:"director"`
	Year        int      `json:"year,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Actors      []string `json:"actors"`
	ImagePath   string   `json:"imagePath,omitempty"`
	Featured    bool     `json:"featured"`
}
