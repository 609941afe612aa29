package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crashsim/crypto"
	"crashsim/game"
	"crashsim/runner"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(runner.DefaultLimits())))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, dst interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body string, dst interface{}) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthCheckWithoutStores(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]interface{}
	if code := getJSON(t, srv.URL+"/api/health", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["redis"] == "ok" || body["postgres"] == "ok" {
		t.Errorf("stores reported healthy without connections: %v", body)
	}
	if clients, ok := body["wsClients"].(float64); !ok || clients != 0 {
		t.Errorf("wsClients = %v, want 0", body["wsClients"])
	}
}

func TestProbability(t *testing.T) {
	srv := newTestServer(t)

	var resp ProbabilityResponse
	if code := getJSON(t, srv.URL+"/api/probability?edge=1&multiplier=2", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !resp.Success || resp.Odds.OneIn != 2 || resp.Odds.ExpectedValue >= 0 {
		t.Errorf("odds = %+v", resp.Odds)
	}

	var errResp ErrorResponse
	if code := getJSON(t, srv.URL+"/api/probability?edge=abc", &errResp); code != http.StatusBadRequest {
		t.Errorf("bad edge status = %d", code)
	}
	if errResp.Success || errResp.Error == "" {
		t.Errorf("error body = %+v", errResp)
	}
}

func TestProbabilityTable(t *testing.T) {
	srv := newTestServer(t)

	var resp ProbabilityTableResponse
	if code := getJSON(t, srv.URL+"/api/probability/table?edge=2&bet=5&multipliers=2,3", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(resp.Rows) != 2 || resp.Rows[0].Payout != 5 || resp.Rows[1].Payout != 10 {
		t.Errorf("rows = %+v", resp.Rows)
	}

	if code := getJSON(t, srv.URL+"/api/probability/table?multipliers=0.5", nil); code != http.StatusBadRequest {
		t.Errorf("bad multipliers status = %d", code)
	}
}

func TestSimulateAndReplay(t *testing.T) {
	srv := newTestServer(t)

	body := `{"houseEdge":1,"multiplier":2,"bet":10,"bankroll":500,"strategy":"martingale","rounds":40,"simulations":30,"seed":"api-seed","includeSessions":true}`

	var sim SimulateResponse
	if code := postJSON(t, srv.URL+"/api/simulate", body, &sim); code != http.StatusOK {
		t.Fatalf("simulate status = %d", code)
	}
	if sim.Result == nil || sim.Result.Summary.Simulations != 30 || len(sim.Result.Sessions) != 30 {
		t.Fatalf("simulate result = %+v", sim.Result)
	}

	replayBody := `{"multiplier":2,"bet":10,"bankroll":500,"strategy":"Martingale","rounds":40,"simulations":30,"seed":"api-seed","simulation":12}`
	var replay ReplayResponse
	if code := postJSON(t, srv.URL+"/api/simulate/replay", replayBody, &replay); code != http.StatusOK {
		t.Fatalf("replay status = %d", code)
	}
	if replay.Session != sim.Result.Sessions[11] {
		t.Errorf("replayed %+v, batch had %+v", replay.Session, sim.Result.Sessions[11])
	}
}

func TestSimulateRejects(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"bad json", "/api/simulate", `{"rounds":`},
		{"unknown strategy", "/api/simulate", `{"strategy":"labouchere"}`},
		{"multiplier below one", "/api/simulate", `{"multiplier":0.5}`},
		{"too many simulations", "/api/simulate", `{"simulations":100000000}`},
		{"replay without seed", "/api/simulate/replay", `{"simulation":1}`},
		{"replay index zero", "/api/simulate/replay", `{"seed":"s","simulation":0}`},
		{"replay index past batch", "/api/simulate/replay", `{"seed":"s","simulations":5,"simulation":6}`},
		{"risk with negative rounds", "/api/risk", `{"rounds":-4}`},
		{"explicit zero rounds", "/api/simulate", `{"rounds":0,"seed":"z"}`},
		{"explicit zero simulations", "/api/simulate", `{"simulations":0}`},
		{"explicit zero bet", "/api/simulate", `{"bet":0}`},
		{"explicit zero bankroll", "/api/simulate", `{"bankroll":0}`},
		{"all explicit zeros", "/api/simulate", `{"rounds":0,"bet":0,"bankroll":0,"simulations":0,"seed":"z"}`},
		{"compare with zero rounds", "/api/simulate/compare", `{"rounds":0}`},
		{"risk with zero bankroll", "/api/risk", `{"bankroll":0}`},
		{"replay with zero rounds", "/api/simulate/replay", `{"seed":"s","rounds":0,"simulation":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := postJSON(t, srv.URL+tt.path, tt.body, nil); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	srv := newTestServer(t)

	var resp CompareResponse
	if code := postJSON(t, srv.URL+"/api/simulate/compare", `{"rounds":20,"simulations":50,"seed":"cmp"}`, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Comparison == nil || len(resp.Comparison.Rows) != 4 || resp.Comparison.Seed != "cmp" {
		t.Errorf("comparison = %+v", resp.Comparison)
	}
}

func TestRisk(t *testing.T) {
	srv := newTestServer(t)

	var resp RiskResponse
	body := `{"bet":100,"bankroll":100,"rounds":10,"simulations":500,"seed":"risk"}`
	if code := postJSON(t, srv.URL+"/api/risk", body, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.RiskOfRuin < 40 || resp.RiskOfRuin > 100 {
		t.Errorf("risk of ruin = %v", resp.RiskOfRuin)
	}
	if resp.Seed != "risk" || resp.Commitment == "" {
		t.Errorf("seed/commitment = %q/%q", resp.Seed, resp.Commitment)
	}
}

func TestHistoryEndpointsWithoutPostgres(t *testing.T) {
	srv := newTestServer(t)

	if code := getJSON(t, srv.URL+"/api/calibration", nil); code != http.StatusNotFound {
		t.Errorf("calibration status = %d, want 404", code)
	}
	if code := getJSON(t, srv.URL+"/api/calibration?limit=0", nil); code != http.StatusBadRequest {
		t.Errorf("calibration limit=0 status = %d, want 400", code)
	}
	if code := getJSON(t, srv.URL+"/api/crash/some-game/verify", nil); code != http.StatusNotFound {
		t.Errorf("verify status = %d, want 404", code)
	}
	if code := postJSON(t, srv.URL+"/api/simulate/backtest", `{}`, nil); code != http.StatusNotFound {
		t.Errorf("backtest status = %d, want 404", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/simulate", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestVerifyGame(t *testing.T) {
	srv := newTestServer(t)

	seed := "revealed-seed"
	hash := crypto.Commit(seed)

	var resp VerifyResponse
	body := `{"serverSeed":"` + seed + `","serverSeedHash":"` + hash + `","gameId":"g-1","houseEdge":2}`
	if code := postJSON(t, srv.URL+"/api/verify", body, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !resp.Valid || resp.CrashPoint != game.VerifyCrashPoint(seed, "g-1", 2) {
		t.Errorf("verify = %+v", resp)
	}

	var bad VerifyResponse
	body = `{"serverSeed":"other","serverSeedHash":"` + hash + `","gameId":"g-1"}`
	if code := postJSON(t, srv.URL+"/api/verify", body, &bad); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if bad.Valid || bad.Error == "" {
		t.Errorf("mismatched seed verified: %+v", bad)
	}

	if code := postJSON(t, srv.URL+"/api/verify", `{"gameId":"g-1"}`, nil); code != http.StatusBadRequest {
		t.Errorf("missing fields status = %d", code)
	}
}

func TestRequestBodiesKeepTheirOwnFields(t *testing.T) {
	var replay ReplayRequest
	if err := json.Unmarshal([]byte(`{"seed":"s","rounds":0,"simulation":4}`), &replay); err != nil {
		t.Fatalf("unmarshal replay: %v", err)
	}
	if replay.Simulation != 4 || replay.Seed != "s" || replay.Rounds != 0 {
		t.Errorf("replay request = %+v", replay)
	}
	if replay.Bet != runner.DefaultRequest().Bet {
		t.Errorf("absent bet = %v, want the default", replay.Bet)
	}

	var backtest BacktestRequest
	if err := json.Unmarshal([]byte(`{"strategy":"fibonacci","limit":250}`), &backtest); err != nil {
		t.Fatalf("unmarshal backtest: %v", err)
	}
	if backtest.Limit != 250 || backtest.Strategy != game.Fibonacci {
		t.Errorf("backtest request = %+v", backtest)
	}
}

func TestSimulateKeepsZeroHouseEdge(t *testing.T) {
	srv := newTestServer(t)

	var sim SimulateResponse
	body := `{"houseEdge":0,"rounds":10,"simulations":5,"seed":"edge-zero"}`
	if code := postJSON(t, srv.URL+"/api/simulate", body, &sim); code != http.StatusOK {
		t.Fatalf("simulate status = %d", code)
	}
	if sim.Result.Request.HouseEdge != 0 || sim.Result.Odds.HouseEdge != game.MinHouseEdge {
		t.Errorf("house edge request/odds = %v/%v, want 0/%v",
			sim.Result.Request.HouseEdge, sim.Result.Odds.HouseEdge, game.MinHouseEdge)
	}
}
