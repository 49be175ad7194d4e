// Package docstore is the document-store adapter of the read model. It reads
// the players, prop_lines, analysis_results and games collections written by
// the ingestion programs and translates them into domain types.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const backend = "mongo"

// Collection names.
const (
	PlayersCollection   = "players"
	PropLinesCollection = "prop_lines"
	AnalysisCollection  = "analysis_results"
	GamesCollection     = "games"
)

var (
	errAnalysisNotFound  = apperr.NotFound("No analysis found for player")
	errGameStatsNotFound = apperr.NotFound("Game stats not found")
)

// Reader reads the canonical model from MongoDB
type Reader struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client to uri and verifies it with a ping
func Connect(ctx context.Context, uri, database string) (*Reader, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Reader{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client
func (r *Reader) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ListPlayerProjections joins players with their prop lines
func (r *Reader) ListPlayerProjections(ctx context.Context) ([]domain.PlayerProjection, error) {
	var players []playerDoc
	if err := r.findAll(ctx, PlayersCollection, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &players); err != nil {
		return nil, observe("list_players", err)
	}

	var lines []propLineDoc
	if err := r.findAll(ctx, PropLinesCollection, bson.D{}, options.Find(), &lines); err != nil {
		return nil, observe("list_players", err)
	}

	return joinProjections(players, lines), observe("list_players", nil)
}

// LatestAnalysis returns the newest analysis for the player and stat type
func (r *Reader) LatestAnalysis(ctx context.Context, playerKey string, stat domain.StatType) (*domain.Analysis, error) {
	filter := analysisFilter(playerKey, stat)
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var doc analysisDoc
	err := r.db.Collection(AnalysisCollection).FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, observe("latest_analysis", errAnalysisNotFound)
	}
	if err != nil {
		return nil, observe("latest_analysis", err)
	}

	a := doc.toDomain()
	return &a, observe("latest_analysis", nil)
}

// analysisFilter matches a player's analyses for stat. Player level analyses
// may store an empty stat_type or none at all.
func analysisFilter(playerKey string, stat domain.StatType) bson.D {
	var statMatch any = string(stat)
	if stat == "" {
		statMatch = bson.D{{Key: "$in", Value: bson.A{"", nil}}}
	}
	return bson.D{
		{Key: "player_key", Value: playerKey},
		{Key: "stat_type", Value: statMatch},
	}
}

// ListAnalyses returns the newest analysis per player and stat type
func (r *Reader) ListAnalyses(ctx context.Context) (map[string]domain.Analysis, error) {
	var docs []analysisDoc
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if err := r.findAll(ctx, AnalysisCollection, bson.D{}, opts, &docs); err != nil {
		return nil, observe("list_analyses", err)
	}

	out := make(map[string]domain.Analysis, len(docs))
	for _, d := range docs {
		key := domain.AnalysisKey(d.PlayerKey, domain.StatType(d.StatType))
		if _, ok := out[key]; !ok {
			out[key] = d.toDomain()
		}
	}
	return out, observe("list_analyses", nil)
}

// RecentGames returns up to limit games for the player, newest first
func (r *Reader) RecentGames(ctx context.Context, playerName string, limit int) ([]domain.GameLine, error) {
	filter := bson.D{{Key: "player_key", Value: domain.NormalizeName(playerName)}}
	opts := options.Find().
		SetSort(bson.D{{Key: "game_date", Value: -1}, {Key: "game_id", Value: -1}}).
		SetLimit(int64(limit))

	var docs []gameDoc
	if err := r.findAll(ctx, GamesCollection, filter, opts, &docs); err != nil {
		return nil, observe("recent_games", err)
	}

	games := make([]domain.GameLine, 0, len(docs))
	for _, d := range docs {
		games = append(games, d.toGameLine())
	}
	return games, observe("recent_games", nil)
}

// GameStats returns the player's box score for a game
func (r *Reader) GameStats(ctx context.Context, gameID, playerName string) (*domain.GameStats, error) {
	filter := bson.D{
		{Key: "game_id", Value: gameID},
		{Key: "player_key", Value: domain.NormalizeName(playerName)},
	}

	var doc gameDoc
	err := r.db.Collection(GamesCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, observe("game_stats", errGameStatsNotFound)
	}
	if err != nil {
		return nil, observe("game_stats", err)
	}

	gs := doc.toGameStats()
	return &gs, observe("game_stats", nil)
}

// Ping checks the connection
func (r *Reader) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return observe("ping", r.client.Ping(ctx, readpref.Primary()))
}

func (r *Reader) findAll(ctx context.Context, collection string, filter bson.D, opts *options.FindOptions, out any) error {
	cur, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("querying %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decoding %s: %w", collection, err)
	}
	return nil
}

func observe(operation string, err error) error {
	status := "ok"
	switch {
	case err == nil:
	case apperr.Is(err, apperr.KindNotFound):
		status = "not_found"
	default:
		status = "error"
		err = apperr.Upstream("store query failed", err)
	}
	metrics.StoreQueriesTotal.WithLabelValues(backend, operation, status).Inc()
	return err
}
