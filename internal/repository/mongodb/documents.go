package mongodb

import (
	"time"

	"myflix/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names follow the existing myFlix collections, which use
// capitalized keys.
const (
	fieldID             = "_id"
	fieldUsername       = "Username"
	fieldPassword       = "Password"
	fieldEmail          = "Email"
	fieldBirthday       = "Birthday"
	fieldFavoriteMovies = "FavoriteMovies"

	fieldTitle        = "Title"
	fieldGenreName    = "Genre.Name"
	fieldDirectorName = "Director.Name"
)

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"Username"`
	Password       string             `bson:"Password"`
	Email          string             `bson:"Email"`
	Birthday       *time.Time         `bson:"Birthday,omitempty"`
	FavoriteMovies []any              `bson:"FavoriteMovies"`
}

type genreDocument struct {
	Name        string `bson:"Name"`
	Description string `bson:"Description"`
}

type directorDocument struct {
	Name      string `bson:"Name"`
	Bio       string `bson:"Bio"`
	BirthYear int    `bson:"BirthYear,omitempty"`
}

type movieDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"Title"`
	Description string             `bson:"Description"`
	Genre       genreDocument      `bson:"Genre"`
	Director    directorDocument   `bson:"Director"`
	Year        int                `bson:"Year,omitempty"`
	Rating      float64            `bson:"Rating,omitempty"`
	Actors      []string           `bson:"Actors"`
	ImagePath   string             `bson:"ImagePath,omitempty"`
	Featured    bool               `bson:"Featured"`
}

// movieRef stores hex ids as ObjectID references so they stay comparable with
// documents written by other clients of the same database.
func movieRef(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func movieRefString(v any) string {
	switch ref := v.(type) {
	case primitive.ObjectID:
		return ref.Hex()
	case string:
		return ref
	default:
		return ""
	}
}

func newUserDocument(u models.User) userDocument {
	favorites := make([]any, 0, len(u.FavoriteMovies))
	for _, id := range u.FavoriteMovies {
		favorites = append(favorites, movieRef(id))
	}
	doc := userDocument{
		Username:       u.Username,
		Password:       u.PasswordHash,
		Email:          u.Email,
		Birthday:       u.Birthday,
		FavoriteMovies: favorites,
	}
	if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d userDocument) toModel() *models.User {
	favorites := make([]string, 0, len(d.FavoriteMovies))
	for _, ref := range d.FavoriteMovies {
		if s := movieRefString(ref); s != "" {
			favorites = append(favorites, s)
		}
	}
	var birthday *time.Time
	if d.Birthday != nil {
		b := d.Birthday.UTC()
		birthday = &b
	}
	return &models.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		PasswordHash:   d.Password,
		Email:          d.Email,
		Birthday:       birthday,
		FavoriteMovies: favorites,
	}
}

func newMovieDocument(m models.Movie) movieDocument {
	actors := m.Actors
	if actors == nil {
		actors = []string{}
	}
	doc := movieDocument{
		Title:       m.Title,
		Description: m.Description,
		Genre:       genreDocument{Name: m.Genre.Name, Description: m.Genre.Description},
		Director: directorDocument{
			Name:      m.Director.Name,
			Bio:       m.Director.Bio,
			BirthYear: m.Director.BirthYear,
		},
		Year:      m.Year,
		Rating:    m.Rating,
		Actors:    actors,
		ImagePath: m.ImagePath,
		Featured:  m.Featured,
	}
	if oid, err := primitive.ObjectIDFromHex(m.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d movieDocument) toModel() models.Movie {
	actors := d.Actors
	if actors == nil {
		actors = []string{}
	}
	return models.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Genre:       models.Genre{Name: d.Genre.Name, Description: d.Genre.Description},
		Director: models.Director{
			Name:      d.Director.Name,
			Bio:       d.Director.Bio,
			BirthYear: d.Director.BirthYear,
		},
		Year:      d.Year,
		Rating:    d.Rating,
		Actors:    actors,
		ImagePath: d.ImagePath,
		Featured:  d.Featured,
	}
}
