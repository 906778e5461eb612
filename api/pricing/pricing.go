package pricing

import (
	"net/http"

	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/go-chi/chi/v5"
)

type Handler struct{}

func (h *Handler) QuoteHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[CostInput](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "cost calculated successfully",
		Data:    Calculate(data),
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) GetVoucherHandler(responseWriter http.ResponseWriter, request *http.Request) {
	code := chi.URLParam(request, "code")

	voucher, ok := LookupVoucher(code)
	if !ok {
		jsonutil.WriteError(responseWriter, MessageUnknownVoucher, http.StatusNotFound)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: voucher.Message,
		Data:    voucher,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}
