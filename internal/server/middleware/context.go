package middleware

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

// App holds the shared clients handlers need.
type App struct {
	DBConn *pgxpool.Pool
	Queue  *amqp091.Channel
}

// AppContext wraps echo's context with the shared application state.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the shared application state to every request.
func AppContextMiddleware(db *pgxpool.Pool, queue *amqp091.Channel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				DBConn: db,
				Queue:  queue,
			}
			return next(&AppContext{Context: c, App: app})
		}
	}
}
