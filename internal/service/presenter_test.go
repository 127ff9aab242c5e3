package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"storefront_bot/internal/config"
	"storefront_bot/internal/domain"
	"storefront_bot/internal/lock"
	"storefront_bot/internal/service/mocks"
)

type PresenterTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	products  *mocks.MockProductStore
	configs   *mocks.MockContextConfigStore
	handles   *mocks.MockDisplayHandleStore
	source    *mocks.MockSource
	converter *mocks.MockCurrencyConverter
	txManager *mocks.MockTransactionManager
	messenger *mocks.MockMessenger

	presenter *Presenter
	cfg       domain.ContextConfig
	now       time.Time
}

func (s *PresenterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.products = mocks.NewMockProductStore(s.ctrl)
	s.configs = mocks.NewMockContextConfigStore(s.ctrl)
	s.handles = mocks.NewMockDisplayHandleStore(s.ctrl)
	s.source = mocks.NewMockSource(s.ctrl)
	s.converter = mocks.NewMockCurrencyConverter(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.messenger = mocks.NewMockMessenger(s.ctrl)

	s.cfg = testConfig("guild")
	s.now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.presenter = NewPresenter(
		s.products,
		s.configs,
		s.handles,
		s.source,
		s.converter,
		s.txManager,
		s.messenger,
		lock.NewKeyed(),
		logger,
		config.DisplayConfig{MaxPageLength: 2000, Footer: "footer"},
	)
	s.presenter.now = func() time.Time { return s.now }

	// Identity conversion keeps expected lines readable.
	s.converter.EXPECT().ToUSD(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, amount decimal.Decimal, _ string) decimal.Decimal {
			return amount
		},
	).AnyTimes()
}

func (s *PresenterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPresenterTestSuite(t *testing.T) {
	suite.Run(t, new(PresenterTestSuite))
}

func (s *PresenterTestSuite) TestPresent_EmptyCacheFetchesAndSends() {
	ctx := context.Background()
	products := testProducts(3)

	s.products.EXPECT().ReadAll(ctx, "guild").Return([]domain.Product{}, nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.source.EXPECT().FetchProducts(ctx, s.cfg.StoreURL, s.cfg.APIKey).Return(products, nil)
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.products.EXPECT().ReplaceAll(ctx, "guild", products).Return(nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(nil, nil)

	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, page domain.Page) (string, error) {
			s.Equal("Available Products", page.Title)
			s.Equal("footer", page.Footer)
			lines := strings.Split(page.Body, "\n\n")
			s.Require().Len(lines, 3)
			s.Equal("[Product 0](https://guild.mysellix.io/product/uniq0) - $10.00 USD", lines[0])
			s.Equal("[Product 2](https://guild.mysellix.io/product/uniq2) - $12.00 USD", lines[2])
			return "m1", nil
		},
	)
	s.handles.EXPECT().Save(ctx, &domain.DisplayHandle{
		ContextID:  "guild",
		ChannelID:  "chan",
		MessageIDs: []string{"m1"},
		UpdatedAt:  s.now,
	}).Return(nil)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_NotConfigured() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(nil, nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(nil, domain.ErrNotConfigured)

	err := s.presenter.Present(ctx, "guild", "chan")

	s.ErrorIs(err, domain.ErrNotConfigured)
}

func (s *PresenterTestSuite) TestPresent_NoProductsAfterFetch() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(nil, nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.source.EXPECT().FetchProducts(ctx, s.cfg.StoreURL, s.cfg.APIKey).Return([]domain.Product{}, nil)
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).Return(nil)

	err := s.presenter.Present(ctx, "guild", "chan")

	s.ErrorIs(err, domain.ErrNoProducts)
}

func (s *PresenterTestSuite) TestPresent_FetchFailure() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(nil, nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.source.EXPECT().FetchProducts(ctx, s.cfg.StoreURL, s.cfg.APIKey).
		Return(nil, fmt.Errorf("status 401: %w", domain.ErrUnauthorized))

	err := s.presenter.Present(ctx, "guild", "chan")

	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *PresenterTestSuite) TestPresent_CacheWriteFailureStillDisplays() {
	ctx := context.Background()
	products := testProducts(1)

	s.products.EXPECT().ReadAll(ctx, "guild").Return(nil, nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.source.EXPECT().FetchProducts(ctx, s.cfg.StoreURL, s.cfg.APIKey).Return(products, nil)
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).Return(errors.New("db down"))
	s.handles.EXPECT().Get(ctx, "guild").Return(nil, nil)
	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).Return("m1", nil)
	s.handles.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_ReadFailure() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(nil, errors.New("db down"))

	err := s.presenter.Present(ctx, "guild", "chan")

	s.ErrorContains(err, "read cached products")
}

func (s *PresenterTestSuite) TestPresent_RepeatedCallsEditInPlace() {
	ctx := context.Background()
	products := testProducts(2)

	var saved *domain.DisplayHandle
	s.products.EXPECT().ReadAll(ctx, "guild").Return(products, nil).Times(3)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil).Times(3)
	s.handles.EXPECT().Get(ctx, "guild").DoAndReturn(
		func(context.Context, string) (*domain.DisplayHandle, error) {
			return saved, nil
		},
	).Times(3)
	s.handles.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, h *domain.DisplayHandle) error {
			saved = h
			return nil
		},
	).Times(1)

	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).Return("m1", nil).Times(1)
	s.messenger.EXPECT().Exists(ctx, "chan", "m1").Return(nil).Times(2)
	s.messenger.EXPECT().Edit(ctx, "chan", "m1", gomock.Any()).Return(nil).Times(2)

	for i := 0; i < 3; i++ {
		s.NoError(s.presenter.Present(ctx, "guild", "chan"))
	}
	s.Equal([]string{"m1"}, saved.MessageIDs)
}

func (s *PresenterTestSuite) TestPresent_MissingMessageSendsNew() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(testProducts(1), nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(&domain.DisplayHandle{
		ContextID: "guild", ChannelID: "chan", MessageIDs: []string{"gone"},
	}, nil)
	s.messenger.EXPECT().Exists(ctx, "chan", "gone").Return(errors.New("unknown message"))
	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).Return("m2", nil)
	s.handles.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, h *domain.DisplayHandle) error {
			s.Equal([]string{"m2"}, h.MessageIDs)
			return nil
		},
	)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_OtherChannelSendsNew() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(testProducts(1), nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(&domain.DisplayHandle{
		ContextID: "guild", ChannelID: "elsewhere", MessageIDs: []string{"m1"},
	}, nil)
	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).Return("m2", nil)
	s.handles.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, h *domain.DisplayHandle) error {
			s.Equal("chan", h.ChannelID)
			return nil
		},
	)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_FirstEditFailsSendsNew() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(testProducts(1), nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(&domain.DisplayHandle{
		ContextID: "guild", ChannelID: "chan", MessageIDs: []string{"m1"},
	}, nil)
	s.messenger.EXPECT().Exists(ctx, "chan", "m1").Return(nil)
	s.messenger.EXPECT().Edit(ctx, "chan", "m1", gomock.Any()).Return(errors.New("missing permissions"))
	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).Return("m2", nil)
	s.handles.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_GrowingCatalogAddsPages() {
	ctx := context.Background()
	products := testProducts(80)

	s.products.EXPECT().ReadAll(ctx, "guild").Return(products, nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(&domain.DisplayHandle{
		ContextID: "guild", ChannelID: "chan", MessageIDs: []string{"m1"},
	}, nil)
	s.messenger.EXPECT().Exists(ctx, "chan", "m1").Return(nil)
	s.messenger.EXPECT().Edit(ctx, "chan", "m1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, page domain.Page) error {
			s.Equal("Available Products", page.Title)
			return nil
		},
	)
	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, page domain.Page) (string, error) {
			s.Equal("Continuation of Available Products", page.Title)
			s.LessOrEqual(len([]rune(page.Body)), 2000)
			return "m2", nil
		},
	).MinTimes(1)
	s.handles.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, h *domain.DisplayHandle) error {
			s.Greater(len(h.MessageIDs), 1)
			s.Equal("m1", h.MessageIDs[0])
			return nil
		},
	)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_ShrinkingCatalogDeletesPages() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(testProducts(2), nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(&domain.DisplayHandle{
		ContextID: "guild", ChannelID: "chan", MessageIDs: []string{"m1", "m2", "m3"},
	}, nil)
	s.messenger.EXPECT().Exists(ctx, "chan", "m1").Return(nil)
	s.messenger.EXPECT().Edit(ctx, "chan", "m1", gomock.Any()).Return(nil)
	s.messenger.EXPECT().Delete(ctx, "chan", "m2").Return(nil)
	s.messenger.EXPECT().Delete(ctx, "chan", "m3").Return(errors.New("already gone"))
	s.handles.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, h *domain.DisplayHandle) error {
			s.Equal([]string{"m1"}, h.MessageIDs)
			return nil
		},
	)

	s.NoError(s.presenter.Present(ctx, "guild", "chan"))
}

func (s *PresenterTestSuite) TestPresent_SendFailure() {
	ctx := context.Background()

	s.products.EXPECT().ReadAll(ctx, "guild").Return(testProducts(1), nil)
	s.configs.EXPECT().Get(ctx, "guild").Return(&s.cfg, nil)
	s.handles.EXPECT().Get(ctx, "guild").Return(nil, errors.New("db down"))
	s.messenger.EXPECT().Send(ctx, "chan", gomock.Any()).Return("", errors.New("missing access"))

	err := s.presenter.Present(ctx, "guild", "chan")

	s.ErrorContains(err, "send display")
}
