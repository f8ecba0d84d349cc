package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-desk/internal/usecase/appointment"
)

type businessMapping struct {
	status  int
	message string
}

// businessErrors maps business codes to HTTP status and user message.
var businessErrors = map[string]businessMapping{
	"barbershop_not_found":  {http.StatusNotFound, "Barbearia não encontrada."},
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"client_not_found":      {http.StatusNotFound, "Cliente não encontrado."},
	"barber_not_found":      {http.StatusNotFound, "Barbeiro não encontrado."},
	"service_not_found":     {http.StatusNotFound, "Serviço não encontrado."},
	"product_not_found":     {http.StatusNotFound, "Produto não encontrado."},
	"item_not_found":        {http.StatusNotFound, "Item de estoque não encontrado."},

	"invalid_status":       {http.StatusBadRequest, "Status inválido."},
	"invalid_date":         {http.StatusBadRequest, "Data inválida."},
	"invalid_date_or_time": {http.StatusBadRequest, "Data ou hora inválida."},
	"invalid_date_range":   {http.StatusBadRequest, "Período inválido."},
	"invalid_month":        {http.StatusBadRequest, "Mês inválido."},
	"day_outside_month":    {http.StatusBadRequest, "O dia selecionado não pertence ao mês exibido."},
	"service_required":     {http.StatusBadRequest, "Selecione ao menos um serviço."},
	"invalid_quantity":     {http.StatusBadRequest, "Quantidade inválida."},

	"invalid_transition":    {http.StatusConflict, "Transição de status não permitida."},
	"confirmation_required": {http.StatusConflict, "Confirme o resumo do atendimento para concluir."},
	"appointment_closed":    {http.StatusConflict, "Agendamento já encerrado."},
	"time_conflict":         {http.StatusConflict, "Conflito de horário."},
	"insufficient_stock":    {http.StatusConflict, "Estoque insuficiente."},
	"email_already_exists":  {http.StatusConflict, "E-mail já cadastrado."},
	"slug_already_exists":   {http.StatusConflict, "Endereço da barbearia já em uso."},
}

// respondError writes err using the business table. Unknown errors become
// a 500 with fallbackCode and are attached to the gin context for the
// request log.
func respondError(c *gin.Context, err error, fallbackCode string) {
	var confirm *ucAppointment.ConfirmationRequiredError
	if errors.As(err, &confirm) {
		m := businessErrors["confirmation_required"]
		c.JSON(m.status, gin.H{
			"error_code": "confirmation_required",
			"message":    m.message,
			"summary":    confirm.Summary,
		})
		return
	}

	if code := httperr.BusinessCode(err); code != "" {
		if m, ok := businessErrors[code]; ok {
			httperr.Write(c, m.status, code, m.message)
			return
		}
		httperr.BadRequest(c, code, "Requisição inválida.")
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, fallbackCode, "Erro interno. Tente novamente.")
}

// --------------------------------------------------
// context helpers
// --------------------------------------------------

func shopID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextBarbershopID).(uint)
}

func userID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

// uintParam reads a positive numeric path parameter, answering 400 when
// it is missing or malformed.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

// uintQuery reads an optional numeric query parameter. Zero means absent.
func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return 0, false
	}
	return uint(v), true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return 0, false
	}
	return v, true
}
