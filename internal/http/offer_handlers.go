package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"task-marketplace.com/task-marketplace/internal/constants"
	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/http/validators"
	"task-marketplace.com/task-marketplace/internal/services"
)

func (h *Handler) CreateOffer(c echo.Context) error {
	var req dto.CreateOfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	fields, err := validators.ValidateCreateOfferRequest(&req)
	if err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	offer, err := h.offerService.CreateOffer(c.Request().Context(), a.ID, fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.NewOfferResponse(offer))
}

func (h *Handler) ListOffers(c echo.Context) error {
	var filter services.OfferFilter
	if err := statusQuery(c.QueryParam("status"), &filter); err != nil {
		return err
	}
	filter.TaskID = c.QueryParam("task_id")

	return h.listOffers(c, filter)
}

func (h *Handler) ListOffersByStatus(c echo.Context) error {
	var filter services.OfferFilter
	if err := statusQuery(c.Param("status"), &filter); err != nil {
		return err
	}

	return h.listOffers(c, filter)
}

func (h *Handler) listOffers(c echo.Context, filter services.OfferFilter) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	views, err := h.offerService.ListOffers(c.Request().Context(), a, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOfferListResponse(views))
}

func (h *Handler) GetOffer(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrOfferIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	view, err := h.offerService.GetOffer(c.Request().Context(), id, a)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOfferViewResponse(view))
}

func (h *Handler) UpdateOffer(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrOfferIDRequired)
	if err != nil {
		return err
	}

	var req dto.UpdateOfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	offer, err := h.offerService.UpdateOffer(c.Request().Context(), id, a.ID, validators.ValidateUpdateOfferRequest(&req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOfferResponse(offer))
}

func (h *Handler) WithdrawOffer(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrOfferIDRequired)
	if err != nil {
		return err
	}
	a, err := actor(c)
	if err != nil {
		return err
	}

	offer, err := h.offerService.WithdrawOffer(c.Request().Context(), id, a.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOfferResponse(offer))
}

func (h *Handler) RespondToOffer(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrOfferIDRequired)
	if err != nil {
		return err
	}

	var req dto.RespondToOfferRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	decision, err := validators.ValidateRespondToOfferRequest(&req)
	if err != nil {
		return err
	}

	a, err := actor(c)
	if err != nil {
		return err
	}

	view, err := h.offerService.RespondToOffer(c.Request().Context(), id, a.ID, decision)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOfferViewResponse(view))
}

func statusQuery(raw string, filter *services.OfferFilter) error {
	if raw == "" {
		return nil
	}
	status, err := constants.ParseOfferStatus(raw)
	if err != nil {
		return apperrors.Validation(fmt.Sprintf("unknown offer status %q", raw))
	}
	filter.Status = &status
	return nil
}
