package bot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/ivanoskov/balance_bot/internal/repository"
	"github.com/ivanoskov/balance_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID = int64(1001)
	chatID = int64(2002)

	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
)

var testNetworks = []model.Network{
	{Name: "Ethereum Mainnet", Symbol: "ETH", Decimals: 18, Endpoints: []string{"eth-1", "eth-2"}},
	{Name: "Base Network", Symbol: "ETH", Decimals: 18, Endpoints: []string{"base-1", "base-2"}},
}

type fakeAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	nextID    int
	failEdits bool
	sendErr   error
	updates   chan tgbotapi.Update
	stopped   bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, c)
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok && f.failEdits {
		return tgbotapi.Message{}, errors.New("edit failed")
	}
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) GetMe() (tgbotapi.User, error) {
	return tgbotapi.User{ID: 1, IsBot: true, UserName: "BalanceCK_bot"}, nil
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.sent))
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, "edit:"+m.Text)
		case tgbotapi.PhotoConfig:
			out = append(out, "photo")
		}
	}
	return out
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// countingFetcher возвращает баланс для всех вызовов, кроме перечисленных в missing
type countingFetcher struct {
	mu      sync.Mutex
	calls   []string
	missing map[string]bool
}

func (f *countingFetcher) Fetch(ctx context.Context, network model.Network, address string) (*model.BalanceResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, network.Name+"|"+address)
	if f.missing[network.Name+"|"+address] {
		return nil, false
	}
	return &model.BalanceResult{Network: network.Name, Address: address, Balance: 0.5, Symbol: network.Symbol}, true
}

type panicChecker struct{}

func (panicChecker) Check(ctx context.Context, addresses []string, progress service.ProgressFunc) service.Report {
	panic("unexpected")
}

func (panicChecker) Networks() []model.Network { return testNetworks }

type fakeCharts struct {
	calls int
	err   error
}

func (c *fakeCharts) GenerateBalanceChart(results []model.BalanceResult) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte("png"), nil
}

type testEnv struct {
	api     *fakeAPI
	fetcher *countingFetcher
	store   *repository.MemoryStateStore
	bot     *Bot
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	api := &fakeAPI{}
	fetcher := &countingFetcher{missing: map[string]bool{}}
	store := repository.NewMemoryStateStore()
	b := New(api, service.NewBalanceChecker(fetcher, testNetworks), service.NewConversation(store), opts)
	return &testEnv{api: api, fetcher: fetcher, store: store, bot: b}
}

func command(text string) tgbotapi.Update {
	u := textMessage(text)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	return u
}

func textMessage(text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
		},
	}
}

func (e *testEnv) state(t *testing.T) (model.ConversationState, bool) {
	t.Helper()
	state, ok, err := e.store.GetState(context.Background(), userID)
	require.NoError(t, err)
	return state, ok
}

func TestBot_EndToEnd(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	state, ok := env.state(t)
	require.True(t, ok)
	assert.Equal(t, model.StateAwaitingAddresses, state)
	texts := env.api.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Welcome to Wallet Balance Checker Bot")
	assert.Contains(t, texts[0], "Ethereum Mainnet")
	assert.Contains(t, texts[0], "Base Network")

	env.api.reset()
	invalid := "0x" + strings.Repeat("a", 39)
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(invalid)))
	assert.Equal(t, []string{invalidAddressesText}, env.api.texts())
	assert.Empty(t, env.fetcher.calls)
	state, ok = env.state(t)
	require.True(t, ok)
	assert.Equal(t, model.StateAwaitingAddresses, state)

	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA+", "+addrB)))

	assert.Equal(t, []string{
		"Ethereum Mainnet|" + addrA,
		"Base Network|" + addrA,
		"Ethereum Mainnet|" + addrB,
		"Base Network|" + addrB,
	}, env.fetcher.calls)

	texts = env.api.texts()
	require.Len(t, texts, 5)
	assert.Equal(t, "🔍 Processing 2 address(es)...", texts[0])
	assert.Equal(t, "edit:🔍 Processing address 1/2...", texts[1])
	assert.Equal(t, "edit:🔍 Processing address 2/2...", texts[2])
	assert.Equal(t, checkMoreText, texts[4])

	report := texts[3]
	assert.True(t, strings.HasPrefix(report, "edit:💰 *Wallet Balance Information*"))
	for i, want := range []string{"#1 🌐 *Ethereum Mainnet*", "#2 🌐 *Base Network*", "#3 🌐 *Ethereum Mainnet*", "#4 🌐 *Base Network*"} {
		assert.Contains(t, report, want, "result %d", i+1)
	}
	assert.Less(t, strings.Index(report, "0x11111111...11111111"), strings.Index(report, "0x22222222...22222222"))
	assert.Equal(t, 4, strings.Count(report, "0.500000 ETH"))
	assert.NotContains(t, report, "⚠️")

	state, ok = env.state(t)
	require.True(t, ok)
	assert.Equal(t, model.StateAwaitingAddresses, state)
}

func TestBot_RejectsWithoutStart(t *testing.T) {
	env := newTestEnv(t, Options{})

	require.NoError(t, env.bot.handleUpdate(context.Background(), textMessage(addrA)))
	assert.Equal(t, []string{startFirstText}, env.api.texts())
	assert.Empty(t, env.fetcher.calls)
	_, ok := env.state(t)
	assert.False(t, ok)
}

func TestBot_RejectsUnknownState(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.NoError(t, env.store.SetState(context.Background(), userID, "something_else"))

	require.NoError(t, env.bot.handleUpdate(context.Background(), textMessage(addrA)))
	assert.Equal(t, []string{startFirstText}, env.api.texts())
}

func TestBot_HelpKeepsState(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/help")))
	texts := env.api.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Wallet Balance Checker Bot Help")
	_, ok := env.state(t)
	assert.False(t, ok, "help must not start a conversation")
}

func TestBot_FailedAddressesWarning(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.fetcher.missing["Ethereum Mainnet|"+addrB] = true
	env.fetcher.missing["Base Network|"+addrB] = true
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA+","+addrB)))

	texts := env.api.texts()
	require.Len(t, texts, 5)
	assert.Contains(t, texts[3], "#2 🌐 *Base Network*")
	assert.NotContains(t, texts[3], "#3")
	assert.True(t, strings.HasSuffix(texts[3], "\n⚠️ Could not fetch data for 1 address(es) due to network issues."))
}

func TestBot_SingleAddressSkipsProgress(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA)))

	texts := env.api.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "🔍 Processing 1 address(es)...", texts[0])
	assert.Contains(t, texts[1], "#2 🌐 *Base Network*")
	assert.Equal(t, checkMoreText, texts[2])
}

func TestBot_SendsChart(t *testing.T) {
	charts := &fakeCharts{}
	env := newTestEnv(t, Options{Charts: charts})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA)))

	assert.Equal(t, 1, charts.calls)
	texts := env.api.texts()
	require.Len(t, texts, 4)
	assert.Equal(t, "photo", texts[2])
	assert.Equal(t, checkMoreText, texts[3])
}

func TestBot_ChartFailureIsNotFatal(t *testing.T) {
	charts := &fakeCharts{err: errors.New("no font")}
	env := newTestEnv(t, Options{Charts: charts})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA)))

	texts := env.api.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, checkMoreText, texts[2])
}

func TestBot_NoChartWithoutResults(t *testing.T) {
	charts := &fakeCharts{}
	env := newTestEnv(t, Options{Charts: charts})
	env.fetcher.missing["Ethereum Mainnet|"+addrA] = true
	env.fetcher.missing["Base Network|"+addrA] = true
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA)))

	assert.Zero(t, charts.calls)
	texts := env.api.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "edit:"+service.NoBalancesMessage+"\n⚠️ Could not fetch data for 1 address(es) due to network issues.", texts[1])
}

func TestBot_PanicIsContained(t *testing.T) {
	api := &fakeAPI{}
	store := repository.NewMemoryStateStore()
	b := New(api, panicChecker{}, service.NewConversation(store), Options{})
	ctx := context.Background()

	require.NoError(t, b.handleUpdate(ctx, command("/start")))
	api.reset()
	require.NoError(t, b.handleUpdate(ctx, textMessage(addrA)))

	texts := api.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "edit:"+processingErrorText, texts[1])

	ok, err := service.NewConversation(store).Accepts(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok, "conversation must stay usable after a failure")
}

func TestBot_ReportEditFailsFallsBackToNewMessage(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.api.failEdits = true
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage(addrA)))

	texts := env.api.texts()
	require.Len(t, texts, 4)
	assert.True(t, strings.HasPrefix(texts[1], "edit:💰"))
	assert.Equal(t, "edit:"+processingErrorText, texts[2])
	assert.Equal(t, processingErrorText, texts[3])
}

func TestBot_IgnoresNonTextUpdates(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, tgbotapi.Update{UpdateID: 5}))
	require.NoError(t, env.bot.handleUpdate(ctx, textMessage("")))
	assert.Empty(t, env.api.texts())
}

func TestBot_UnknownCommandTreatedAsText(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	require.NoError(t, env.bot.handleUpdate(ctx, command("/start")))
	env.api.reset()
	require.NoError(t, env.bot.handleUpdate(ctx, command("/balance")))
	assert.Equal(t, []string{invalidAddressesText}, env.api.texts())
}

func TestBot_HandleWebhook(t *testing.T) {
	env := newTestEnv(t, Options{})

	body, err := json.Marshal(command("/start"))
	require.NoError(t, err)
	require.NoError(t, env.bot.HandleWebhook(context.Background(), body))
	_, ok := env.state(t)
	assert.True(t, ok)

	assert.Error(t, env.bot.HandleWebhook(context.Background(), []byte("{")))
}

func TestBot_WebhookIgnoresSendFailures(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.api.sendErr = errors.New("Forbidden: bot was blocked by the user")
	ctx := context.Background()

	body, err := json.Marshal(command("/start"))
	require.NoError(t, err)
	require.NoError(t, env.bot.HandleWebhook(ctx, body))
	state, ok := env.state(t)
	require.True(t, ok)
	assert.Equal(t, model.StateAwaitingAddresses, state)

	body, err = json.Marshal(command("/help"))
	require.NoError(t, err)
	assert.NoError(t, env.bot.HandleWebhook(ctx, body))

	body, err = json.Marshal(textMessage(addrA))
	require.NoError(t, err)
	assert.NoError(t, env.bot.HandleWebhook(ctx, body))
	assert.Empty(t, env.fetcher.calls, "lookup must not start without a progress message")

	body, err = json.Marshal(textMessage("not an address"))
	require.NoError(t, err)
	assert.NoError(t, env.bot.HandleWebhook(ctx, body))
}

func TestBot_StartPolling(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.api.updates = make(chan tgbotapi.Update, 1)
	env.api.updates <- command("/start")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.bot.Start(ctx) }()

	require.Eventually(t, func() bool {
		_, ok, _ := env.store.GetState(context.Background(), userID)
		return ok
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("polling did not stop")
	}
	assert.True(t, env.api.stopped)
}
