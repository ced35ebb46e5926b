package context

import (
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// KeyActor is the key for storing the authenticated actor in echo.Context.
const KeyActor ContextKey = "actor"

// SetActor stores the authenticated actor in echo.Context.
func SetActor(c echo.Context, actor usecase.Actor) {
	c.Set(string(KeyActor), actor)
}

// GetActor extracts the authenticated actor from echo.Context.
// The second return value reports whether an actor was present.
func GetActor(c echo.Context) (usecase.Actor, bool) {
	actor, ok := c.Get(string(KeyActor)).(usecase.Actor)

	return actor, ok
}
