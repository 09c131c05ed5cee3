package server

import "github.com/desertthunder/reelx/internal/models"

// Account is a sign-in identity known to the mock backend.
type Account struct {
	User     models.User
	Password string
}

// DefaultAccounts are the identities a fresh [Backend] accepts.
var DefaultAccounts = []Account{
	{User: models.User{ID: "1", Username: "demo", Name: "Demo User"}, Password: "demo123"},
	{User: models.User{ID: "2", Username: "critic", Name: "Film Critic"}, Password: "critic123"},
}

var genres = map[int]string{
	12: "Adventure", 14: "Fantasy", 16: "Animation", 18: "Drama", 28: "Action",
	35: "Comedy", 53: "Thriller", 80: "Crime", 878: "Science Fiction", 10749: "Romance",
}

type seedMovie struct {
	id       int
	title    string
	original string
	language string
	date     string
	vote     float64
	votes    int
	runtime  int
	genreIDs []int
	tagline  string
	overview string
}

// catalog is ordered by popularity, most popular first.
var catalog = []seedMovie{
	{550, "Fight Club", "Fight Club", "en", "1999-10-15", 8.4, 27000, 139, []int{18, 53}, "Mischief. Mayhem. Soap.", "A ticking-time-bomb insomniac and a slippery soap salesman channel primal male aggression into a shocking new form of therapy."},
	{13, "Forrest Gump", "Forrest Gump", "en", "1994-06-23", 8.5, 25000, 142, []int{35, 18, 10749}, "The world will never be the same once you've seen it through the eyes of Forrest Gump.", "A man with a low IQ has accomplished great things in his life and been present during significant historic events."},
	{278, "The Shawshank Redemption", "The Shawshank Redemption", "en", "1994-09-23", 8.7, 26000, 142, []int{18, 80}, "Fear can hold you prisoner. Hope can set you free.", "Imprisoned in the 1940s for the double murder of his wife and her lover, upstanding banker Andy Dufresne begins a new life at the Shawshank prison."},
	{238, "The Godfather", "The Godfather", "en", "1972-03-14", 8.7, 19000, 175, []int{18, 80}, "An offer you can't refuse.", "Spanning the years 1945 to 1955, a chronicle of the fictional Italian-American Corleone crime family."},
	{155, "The Dark Knight", "The Dark Knight", "en", "2008-07-16", 8.5, 31000, 152, []int{18, 28, 80, 53}, "Welcome to a world without rules.", "Batman raises the stakes in his war on crime with the help of Lt. Jim Gordon and District Attorney Harvey Dent."},
	{680, "Pulp Fiction", "Pulp Fiction", "en", "1994-09-10", 8.5, 27000, 154, []int{53, 80}, "Just because you are a character doesn't mean you have character.", "A burger-loving hit man, his philosophical partner, a drug-addled gangster's moll and a washed-up boxer converge in this sprawling crime caper."},
	{129, "Spirited Away", "千と千尋の神隠し", "ja", "2001-07-20", 8.5, 15000, 125, []int{16, 14}, "", "A young girl, Chihiro, becomes trapped in a strange new world of spirits."},
	{27205, "Inception", "Inception", "en", "2010-07-15", 8.4, 35000, 148, []int{28, 878, 12}, "Your mind is the scene of the crime.", "Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets, is offered a chance to regain his old life."},
	{496243, "Parasite", "기생충", "ko", "2019-05-30", 8.5, 17000, 133, []int{35, 53, 18}, "Act like you own the place.", "All unemployed, Ki-taek's family takes peculiar interest in the wealthy and glamorous Parks for their livelihood."},
	{157336, "Interstellar", "Interstellar", "en", "2014-11-05", 8.4, 33000, 169, []int{12, 18, 878}, "Mankind was born on Earth. It was never meant to die here.", "The adventures of a group of explorers who make use of a newly discovered wormhole to surpass the limitations on human space travel."},
	{603, "The Matrix", "The Matrix", "en", "1999-03-31", 8.2, 24000, 136, []int{28, 878}, "Believe the unbelievable.", "Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents fighting the vast and powerful computers."},
	{424, "Schindler's List", "Schindler's List", "en", "1993-12-15", 8.6, 15000, 195, []int{18}, "Whoever saves one life, saves the world entire.", "The true story of how businessman Oskar Schindler saved over a thousand Jewish lives from the Nazis."},
	{769, "GoodFellas", "GoodFellas", "en", "1990-09-12", 8.5, 12000, 145, []int{18, 80}, "Three decades of life in the mafia.", "The true story of Henry Hill, a half-Irish, half-Sicilian Brooklyn kid who is adopted by neighbourhood gangsters at an early age."},
	{122, "The Lord of the Rings: The Return of the King", "The Lord of the Rings: The Return of the King", "en", "2003-12-01", 8.5, 23000, 201, []int{12, 14, 28}, "The eye of the enemy is moving.", "As armies mass for a final battle against Sauron, Frodo and Sam head into Mordor."},
	{389, "12 Angry Men", "12 Angry Men", "en", "1957-04-10", 8.5, 8000, 97, []int{18}, "Life is in their hands. Death is on their minds.", "The defense and the prosecution have rested and the jury is filing into the jury room to decide if a young Spanish-American is guilty or innocent."},
	{4935, "Howl's Moving Castle", "ハウルの動く城", "ja", "2004-09-09", 8.4, 9000, 119, []int{14, 16, 12}, "The two lived there.", "When Sophie, a shy young woman, is cursed with an old body by a spiteful witch, her only chance of breaking the spell lies with a self-indulgent yet insecure young wizard."},
}

func (s seedMovie) details(popularity float64) models.MovieDetails {
	gs := make([]models.Genre, 0, len(s.genreIDs))
	for _, id := range s.genreIDs {
		gs = append(gs, models.Genre{ID: id, Name: genres[id]})
	}

	return models.MovieDetails{
		Movie: models.Movie{
			ID:               s.id,
			Title:            s.title,
			Overview:         s.overview,
			PosterPath:       "/" + slug(s.id) + "-poster.jpg",
			BackdropPath:     "/" + slug(s.id) + "-backdrop.jpg",
			ReleaseDate:      s.date,
			VoteAverage:      s.vote,
			VoteCount:        s.votes,
			GenreIDs:         append([]int(nil), s.genreIDs...),
			OriginalLanguage: s.language,
			OriginalTitle:    s.original,
			Popularity:       popularity,
		},
		Genres:          gs,
		Runtime:         s.runtime,
		Status:          "Released",
		Tagline:         s.tagline,
		SpokenLanguages: []models.SpokenLanguage{{ISO6391: s.language}},
	}
}

func slug(id int) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	if id == 0 {
		return "0"
	}
	var b []byte
	for n := id; n > 0; n /= len(digits) {
		b = append([]byte{digits[n%len(digits)]}, b...)
	}
	return string(b)
}
