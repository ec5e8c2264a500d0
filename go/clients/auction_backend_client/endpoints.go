package auction_backend_client

const (
	// Base URL
	BaseURL = "https://tplauctionbackend.onrender.com"

	// Player endpoints
	AddPlayerEndpoint       = "/api/player/add"
	PlayerSummariesEndpoint = "/api/player/summary/all"
	PlayerBySerialEndpoint  = "/api/player/%s"
	AssignPlayerEndpoint    = "/api/player/assign"

	// Team endpoints
	AddTeamEndpoint     = "/api/team/add"
	AllTeamsEndpoint    = "/api/team/all"
	TeamByIDEndpoint    = "/api/team/%s"
	TeamPlayersEndpoint = "/api/team/%s/players"

	// Multipart file fields
	PictureField = "picture"
	LogoField    = "logo"

	// Headers
	AcceptHeader    = "Accept"
	JSONContentType = "application/json"
)
