package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/chat"
)

type chatApi struct {
	interpreter *chat.Interpreter
	validate    *validator.Validate
}

type chatMessage struct {
	Message string `json:"message" validate:"required,notblank"`
}

func registerChatAPI(api *echo.Group, interpreter *chat.Interpreter, validate *validator.Validate) {
	ch := chatApi{interpreter: interpreter, validate: validate}
	api.POST("/chat", ch.send)
}

func (ch *chatApi) send(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	var data chatMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to chatMessage")
	}
	if err = ch.validate.Struct(data); err != nil {
		return err
	}

	reply, err := ch.interpreter.Respond(ctx.Request().Context(), owner, data.Message)
	if err != nil {
		return errors.Wrap(err, "responding to chat message")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "response": reply})
}
