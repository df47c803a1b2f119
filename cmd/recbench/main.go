package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/recommend-course/config"
	"github.com/d60-Lab/recommend-course/internal/model"
	"github.com/d60-Lab/recommend-course/internal/repository"
	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)
	if err := model.MigrateHost(db); err != nil {
		panic(err)
	}
	if err := model.Migrate(db); err != nil {
		panic(err)
	}

	users := envInt("USERS", 2000)
	courses := envInt("COURSES", 200)
	ops := envInt("OPS", 5000)
	fanout := envInt("FANOUT", 10)
	conc := envInt("CONC", 4)
	reads := envInt("READS", 500)

	ctx := context.Background()
	recRepo := repository.NewRecommendationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	links := service.NewLinks("http://localhost", "")
	writer := service.NewRecommendationService(recRepo, time.Now)
	reader := service.NewReaderService(recRepo, courseRepo, nil, links, nil, time.UTC)
	stats := service.NewStatsService(recRepo, links, service.DefaultStatsLimit)

	// 用户与课程 id 从 2 开始，1 留给站点首页
	const batch = 1000
	us := make([]model.User, 0, batch)
	for i := 0; i < users; i++ {
		id := int64(i + 2)
		us = append(us, model.User{ID: id, Username: fmt.Sprintf("u%d", id), FirstName: "User", LastName: strconv.FormatInt(id, 10)})
		if len(us) == batch || i == users-1 {
			_ = db.Create(&us).Error
			us = us[:0]
		}
	}
	cs := make([]model.Course, 0, courses)
	for i := 0; i < courses; i++ {
		id := int64(i + 2)
		cs = append(cs, model.Course{ID: id, FullName: fmt.Sprintf("Course %d", id), ShortName: fmt.Sprintf("C%d", id), Visible: true, SummaryFormat: model.SummaryFormatHTML})
	}
	_ = db.CreateInBatches(&cs, batch).Error

	// 写入：每次操作推荐一门课程给 FANOUT 个用户
	feed := make(chan int, ops)
	for i := 0; i < ops; i++ {
		feed <- i
	}
	close(feed)

	if conc > ops {
		conc = ops
	}
	lat := make(chan time.Duration, ops)
	done := make(chan struct{}, conc)
	t0 := time.Now()
	for w := 0; w < conc; w++ {
		go func(seed int64) {
			rnd := rand.New(rand.NewSource(seed))
			for range feed {
				sender := int64(rnd.Intn(users) + 2)
				receivers := make([]int64, fanout)
				for j := range receivers {
					receivers[j] = int64(rnd.Intn(users) + 2)
				}
				in := service.RecommendInput{CourseID: int64(rnd.Intn(courses) + 2), ReceiverIDs: receivers}
				st := time.Now()
				_, _ = writer.Recommend(ctx, service.Caller{UserID: sender}, in)
				lat <- time.Since(st)
			}
			done <- struct{}{}
		}(int64(w + 1))
	}
	for w := 0; w < conc; w++ {
		<-done
	}
	close(lat)
	writeDur := time.Since(t0)
	writeRecs := make([]time.Duration, 0, ops)
	for d := range lat {
		writeRecs = append(writeRecs, d)
	}

	// 读取：随机用户的小部件与全部列表
	rnd := rand.New(rand.NewSource(42))
	recentRecs := make([]time.Duration, 0, reads)
	allRecs := make([]time.Duration, 0, reads)
	for i := 0; i < reads; i++ {
		caller := service.Caller{UserID: int64(rnd.Intn(users) + 2)}
		st := time.Now()
		_, _ = reader.Recent(ctx, caller, service.LayoutExpanded)
		recentRecs = append(recentRecs, time.Since(st))

		st = time.Now()
		_, _ = reader.All(ctx, caller)
		allRecs = append(allRecs, time.Since(st))
	}

	s0 := time.Now()
	view, err := stats.Stats(ctx)
	statsDur := time.Since(s0)
	if err != nil {
		panic(err)
	}

	total := must(recRepo.Count(ctx))
	fmt.Printf("USERS=%d, COURSES=%d, OPS=%d, FANOUT=%d, CONC=%d, rows=%d\n", users, courses, ops, fanout, conc, total)
	fmt.Printf("Recommend latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		writeDur, writeDur/time.Duration(ops), pct(writeRecs, 0.50), pct(writeRecs, 0.95), pct(writeRecs, 0.99))
	fmt.Printf("Recent(expanded) p50: %v, p95: %v, p99: %v\n", pct(recentRecs, 0.50), pct(recentRecs, 0.95), pct(recentRecs, 0.99))
	fmt.Printf("All p50: %v, p95: %v, p99: %v\n", pct(allRecs, 0.50), pct(allRecs, 0.95), pct(allRecs, 0.99))
	fmt.Printf("Stats latency: %v, top=%d, bottom=%d\n", statsDur, len(view.TopRows), len(view.BottomRows))
}
