package controllers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/fleetroute/fleetroute/pkg"
	helper "github.com/fleetroute/fleetroute/pkg/http/router/routerhelper"
	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/util"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

type plannerAPI struct {
	plannerService PlannerService
	log            *zap.Logger
}

func New(plannerService PlannerService, log *zap.Logger) *plannerAPI {
	return &plannerAPI{
		plannerService: plannerService,
		log:            log,
	}
}

func (api *plannerAPI) Routes(group *helper.RouteGroup) {
	group.POST("/solve", api.solve)
	group.POST("/matrix", api.matrix)
	group.GET("/solutions/:id", api.solution)
	group.GET("/solutions/:id/geojson", api.solutionGeoJSON)
	group.GET("/solutions/:id/map", api.solutionMap)
}

// solve accepts either a multipart upload (CSV in the "file" field, params
// as form values) or a JSON body with inline locations, builds the VRPTW
// instance and returns the best solution found within the budget.
func (api *plannerAPI) solve(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		locations []loader.Location
		params    solveParamsRequest
		err       error
	)

	if isMultipart(r) {
		locations, params, err = api.parseMultipartSolve(r)
		if err != nil {
			api.getStatusCode(w, r, err)
			return
		}
	} else {
		var request solveRequest
		if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}
		if err = r.Body.Close(); err != nil {
			api.ServerErrorResponse(w, r, err)
			return
		}
		if verr := api.validateStruct(request); verr != nil {
			api.BadRequestResponse(w, r, verr)
			return
		}
		params = request.solveParamsRequest
		locations = make([]loader.Location, 0, len(request.Locations))
		for _, l := range request.Locations {
			locations = append(locations, l.toLocation())
		}
		if params.NumLocations > 0 && params.NumLocations < len(locations) {
			locations = locations[:params.NumLocations]
		}
	}

	id, summary, err := api.plannerService.Plan(r.Context(), locations, params.toParams())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSolveResponse(id, summary)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *plannerAPI) matrix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		locations   []loader.Location
		avgSpeedMph float64
		err         error
	)

	if isMultipart(r) {
		var params solveParamsRequest
		locations, params, err = api.parseMultipartSolve(r)
		if err != nil {
			api.getStatusCode(w, r, err)
			return
		}
		avgSpeedMph = params.AvgSpeedMph
	} else {
		var request matrixRequest
		if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}
		if err = r.Body.Close(); err != nil {
			api.ServerErrorResponse(w, r, err)
			return
		}
		if verr := api.validateStruct(request); verr != nil {
			api.BadRequestResponse(w, r, verr)
			return
		}
		locations = make([]loader.Location, 0, len(request.Locations))
		for _, l := range request.Locations {
			locations = append(locations, l.toLocation())
		}
		avgSpeedMph = request.AvgSpeedMph
	}

	if avgSpeedMph == 0 {
		avgSpeedMph = pkg.DefaultAvgSpeedMph
	}

	distances, durations, err := api.plannerService.DistanceMatrix(locations, avgSpeedMph)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewMatrixResponse(len(locations), avgSpeedMph, distances, durations)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *plannerAPI) solution(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	summary, err := api.plannerService.Solution(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": summary}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *plannerAPI) solutionGeoJSON(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	fc, err := api.plannerService.SolutionGeoJSON(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		api.logError(r, err)
	}
}

func (api *plannerAPI) solutionMap(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := p.ByName("id")
	if _, err := api.plannerService.Solution(id); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := api.plannerService.WriteSolutionMap(id, w); err != nil {
		api.logError(r, err)
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}

func (api *plannerAPI) parseMultipartSolve(r *http.Request) ([]loader.Location, solveParamsRequest, error) {
	var params solveParamsRequest

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, params, util.WrapErrorf(err, util.ErrBadParamInput, "cannot parse multipart form")
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, params, util.WrapErrorf(err, util.ErrBadParamInput, "csv upload is required in the %q field", "file")
	}
	defer file.Close()

	intField := func(key string, dst *int) error {
		val := r.FormValue(key)
		if val == "" {
			return nil
		}
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return util.WrapErrorf(err, util.ErrBadParamInput, "%s must be a valid integer", key)
		}
		*dst = parsed
		return nil
	}

	for key, dst := range map[string]*int{
		"num_vehicles":       &params.NumVehicles,
		"vehicle_capacity":   &params.VehicleCapacity,
		"service_time":       &params.ServiceTime,
		"time_window_end":    &params.TimeWindowEnd,
		"max_route_duration": &params.MaxRouteDuration,
		"max_runtime":        &params.MaxRuntime,
		"num_locations":      &params.NumLocations,
	} {
		if err := intField(key, dst); err != nil {
			return nil, params, err
		}
	}
	// 0 (midnight) is a valid window start, only set when present
	if val := r.FormValue("time_window_start"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, params, util.WrapErrorf(err, util.ErrBadParamInput, "time_window_start must be a valid integer")
		}
		params.TimeWindowStart = &parsed
	}
	if val := r.FormValue("avg_speed_mph"); val != "" {
		params.AvgSpeedMph, err = strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, params, util.WrapErrorf(err, util.ErrBadParamInput, "avg_speed_mph must be a valid float")
		}
	}

	if verr := api.validateStruct(params); verr != nil {
		return nil, params, util.WrapErrorf(verr, util.ErrBadParamInput, "%s", verr.Error())
	}

	locations, err := loader.ReadLocations(file, params.NumLocations)
	if err != nil {
		return nil, params, err
	}
	return locations, params, nil
}

func (api *plannerAPI) validateStruct(s interface{}) error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}
