package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockrating/services"
	"stockrating/services/rating"
	"stockrating/types"
	"stockrating/utils/helpers"
)

const (
	failedToRetrieve = "Failed to retrieve data. Please check the stock symbol and try again."
	invalidIntentMsg = "Invalid intent. Please choose buy or sell."
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errInvalidSymbol = errors.New("invalid stock symbol")

type AnalyzeControllerI interface {
	AnalyzeForm(ctx *gin.Context)
	AnalyzeSubmit(ctx *gin.Context)
	Analyze(ctx *gin.Context)
	Evaluate(ctx *gin.Context)
	Report(ctx *gin.Context)
}

type analyzeController struct{}

var AnalyzeController AnalyzeControllerI = &analyzeController{}

type evaluateRequest struct {
	Snapshot types.MetricsSnapshot `json:"snapshot"`
	Intent   string                `json:"intent"`
}

// analyzeSymbol fetches a snapshot for symbol and evaluates it. The intent is
// checked before any provider call.
func analyzeSymbol(ctx context.Context, rawSymbol, intent string) (*types.MetricsSnapshot, types.Evaluation, error) {
	if _, err := rating.ParseIntent(intent); err != nil {
		return nil, types.Evaluation{}, err
	}

	symbol := helpers.NormalizeSymbol(rawSymbol)
	if !helpers.ValidSymbol(symbol) {
		return nil, types.Evaluation{}, fmt.Errorf("%w: %q", errInvalidSymbol, rawSymbol)
	}

	snapshot, err := services.MetricsService.FetchSnapshot(ctx, symbol)
	if err != nil {
		return nil, types.Evaluation{}, err
	}

	evaluation, err := rating.Evaluate(*snapshot, intent)
	if err != nil {
		return nil, types.Evaluation{}, err
	}

	services.EventService.PublishAnalysis(symbol, evaluation)
	return snapshot, evaluation, nil
}

// statusFor maps analysis errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rating.ErrInvalidIntent), errors.Is(err, errInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (a *analyzeController) AnalyzeForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "analyze.html", gin.H{"Title": "Analyze"})
}

// AnalyzeSubmit handles the analyze form. Lookup failures render the
// generic failure text with a 200 so the page stays usable.
func (a *analyzeController) AnalyzeSubmit(ctx *gin.Context) {
	defer sentry.Recover()
	span := sentry.StartSpan(ctx.Request.Context(), "[GIN] AnalyzeSubmit", sentry.WithTransactionName("AnalyzeSubmit"))
	defer span.Finish()

	symbol := ctx.PostForm("stock_name")
	intent := ctx.PostForm("intent")

	_, evaluation, err := analyzeSymbol(span.Context(), symbol, intent)
	if err != nil {
		if errors.Is(err, rating.ErrInvalidIntent) {
			span.Status = sentry.SpanStatusInvalidArgument
			ctx.HTML(http.StatusBadRequest, "result.html", gin.H{"Title": "Result", "Result": invalidIntentMsg})
			return
		}
		if statusFor(err) == http.StatusBadGateway {
			span.Status = sentry.SpanStatusUnavailable
			sentry.CaptureException(err)
		}
		zap.L().Info("Analysis failed", zap.String("symbol", symbol), zap.Error(err))
		ctx.HTML(http.StatusOK, "result.html", gin.H{"Title": "Result", "Result": failedToRetrieve})
		return
	}

	span.Status = sentry.SpanStatusOK
	ctx.HTML(http.StatusOK, "result.html", gin.H{
		"Title":      "Result",
		"Result":     evaluation.Message(),
		"Evaluation": &evaluation,
	})
}

func (a *analyzeController) Analyze(ctx *gin.Context) {
	defer sentry.Recover()
	span := sentry.StartSpan(ctx.Request.Context(), "[GIN] Analyze", sentry.WithTransactionName("Analyze"))
	defer span.Finish()

	symbol := ctx.Query("symbol")
	if symbol == "" {
		span.Status = sentry.SpanStatusInvalidArgument
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	snapshot, evaluation, err := analyzeSymbol(span.Context(), symbol, ctx.DefaultQuery("intent", string(types.IntentBuy)))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			span.Status = sentry.SpanStatusUnavailable
			sentry.CaptureException(err)
			zap.L().Error("Error fetching snapshot", zap.String("symbol", symbol), zap.Error(err))
			ctx.JSON(status, gin.H{"error": failedToRetrieve})
			return
		}
		span.Status = sentry.SpanStatusInvalidArgument
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	span.Status = sentry.SpanStatusOK
	ctx.JSON(http.StatusOK, gin.H{
		"symbol":     snapshot.Symbol,
		"message":    evaluation.Message(),
		"evaluation": evaluation,
		"snapshot":   snapshot,
	})
}

// Evaluate scores a caller-supplied snapshot without contacting any provider.
func (a *analyzeController) Evaluate(ctx *gin.Context) {
	var req evaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	evaluation, err := rating.Evaluate(req.Snapshot, req.Intent)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    evaluation.Message(),
		"evaluation": evaluation,
	})
}

func (a *analyzeController) Report(ctx *gin.Context) {
	defer sentry.Recover()
	span := sentry.StartSpan(ctx.Request.Context(), "[GIN] Report", sentry.WithTransactionName("Report"))
	defer span.Finish()

	symbol := ctx.Query("symbol")
	if symbol == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	snapshot, evaluation, err := analyzeSymbol(span.Context(), symbol, ctx.DefaultQuery("intent", string(types.IntentBuy)))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			span.Status = sentry.SpanStatusUnavailable
			sentry.CaptureException(err)
			ctx.JSON(status, gin.H{"error": failedToRetrieve})
			return
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	workbook, err := services.BuildReport(snapshot, evaluation)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		sentry.CaptureException(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error building report"})
		return
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		sentry.CaptureException(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing report"})
		return
	}

	span.Status = sentry.SpanStatusOK
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_rating.xlsx", snapshot.Symbol))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
