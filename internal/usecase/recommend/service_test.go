package recommend

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/usecase/vectorize"
)

func TestPredict_PythonQueryRanksPythonCoursesFirst(t *testing.T) {
	svc := fittedService(t, threeCourses())

	recs, err := svc.Predict(context.Background(), "python basics", 2)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	for _, r := range recs {
		if r.Course().Category() != "programming" {
			t.Errorf("biology course %q ranked in top 2 for python query", r.Course().Name())
		}
	}
	if recs[0].Score() < recs[1].Score() {
		t.Errorf("scores not descending: %v then %v", recs[0].Score(), recs[1].Score())
	}
}

func TestPredict_SelfQueryRanksFirst(t *testing.T) {
	courses := threeCourses()
	svc := fittedService(t, courses)

	for i, c := range courses {
		recs, err := svc.Predict(context.Background(), c.CombinedText(), 1)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		if len(recs) != 1 || recs[0].Index() != i {
			t.Errorf("query equal to course %d combined text ranked index %d first", i, recs[0].Index())
		}
	}
}

func TestPredict_BeforeFit(t *testing.T) {
	svc := New(&mockSource{courses: threeCourses()}, vectorize.New(vectorize.NewTokenizer(false)), zap.NewNop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err := svc.Predict(context.Background(), "python", 1)
	if !errors.Is(err, domain.ErrNotFitted) {
		t.Errorf("error = %v, want ErrNotFitted", err)
	}
}

func TestFit_BeforeLoad(t *testing.T) {
	svc := New(&mockSource{}, vectorize.New(vectorize.NewTokenizer(false)), zap.NewNop())
	if err := svc.Fit(context.Background()); !errors.Is(err, domain.ErrNotLoaded) {
		t.Errorf("error = %v, want ErrNotLoaded", err)
	}
}

func TestFit_EmptyCorpus(t *testing.T) {
	svc := fittedService(t, nil)

	recs, err := svc.Predict(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Predict over empty corpus: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("empty corpus returned %d recommendations", len(recs))
	}
}

func TestPredict_ClampsTopK(t *testing.T) {
	svc := fittedService(t, threeCourses())
	recs, err := svc.Predict(context.Background(), "python", 50)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("got %d recommendations, want all 3", len(recs))
	}
}

func TestLoad_PropagatesSourceError(t *testing.T) {
	svc := New(&mockSource{err: domain.ErrDataNotFound}, vectorize.New(vectorize.NewTokenizer(false)), zap.NewNop())
	if err := svc.Load(context.Background()); !errors.Is(err, domain.ErrDataNotFound) {
		t.Errorf("error = %v, want ErrDataNotFound", err)
	}
}

func TestLoad_InvalidatesPreviousFit(t *testing.T) {
	svc := fittedService(t, threeCourses())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if svc.Fitted() {
		t.Error("reloading the corpus must clear the fitted state")
	}
}

func TestCourse_IndexBounds(t *testing.T) {
	svc := fittedService(t, threeCourses())

	if _, err := svc.Course(2); err != nil {
		t.Errorf("Course(2): %v", err)
	}
	if _, err := svc.Course(3); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("Course(3) error = %v, want ErrCourseNotFound", err)
	}
	if _, err := svc.Course(-1); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("Course(-1) error = %v, want ErrCourseNotFound", err)
	}
}

func TestPredict_StableTieOrder(t *testing.T) {
	// Two byte-identical courses tie exactly; the lower corpus index wins.
	dup := course.New("Same Course", "U", "", "cat", "identical text", "identical body")
	svc := fittedService(t, []course.Course{dup, dup})

	recs, err := svc.Predict(context.Background(), "identical text", 2)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if recs[0].Index() != 0 || recs[1].Index() != 1 {
		t.Errorf("tie order = [%d %d], want [0 1]", recs[0].Index(), recs[1].Index())
	}
}
