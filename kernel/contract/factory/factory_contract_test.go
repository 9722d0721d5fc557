package factory

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
)

const (
	testFactory = "0x0000000000000000000000000000000000000777"
	testCreator = "0x0000000000000000000000000000000000000010"
)

func newFactoryForTest(t *testing.T) (*Manager, *fakeManager) {
	mgr := &fakeManager{registry: contract.NewKernRegistry()}
	ctx, err := NewFactoryCtx(testFactory, mgr)
	if err != nil {
		t.Fatal("new factory ctx failed", err)
	}
	m, err := NewManager(ctx)
	if err != nil {
		t.Fatal("new factory manager failed", err)
	}
	return m, mgr
}

func TestNewManager(t *testing.T) {
	_, mgr := newFactoryForTest(t)
	methods := mgr.registry.ListMethods(FactoryContract)
	want := []string{CreateCampaignContract, GetDeployedCampaigns, GetDeployedCampaignsCount, ListOfDeployedCampaignContracts}
	if !reflect.DeepEqual(methods, want) {
		t.Fatal("registered methods assert failed", methods)
	}
	if _, err := NewFactoryCtx("", mgr); err == nil {
		t.Fatal("empty factory address should fail")
	}
}

func TestCreateCampaignContract(t *testing.T) {
	m, _ := newFactoryForTest(t)
	c := m.Contract
	state := sandbox.NewMemXModel()

	var created []string
	for i, minimum := range []string{"100", "5"} {
		ctx := NewFakeKContext(state, testCreator, map[string][]byte{ArgMinimum: []byte(minimum)})
		resp, err := c.CreateCampaignContract(ctx)
		if err != nil {
			t.Fatal("create campaign failed", err)
		}
		want := crypto.CreateAddress(common.HexToAddress(testFactory), uint64(i)).Hex()
		if string(resp.Body) != want {
			t.Fatal("campaign address assert failed", string(resp.Body), want)
		}
		if len(ctx.Events()) != 1 || ctx.Events()[0].Name != EventCampaignCreated {
			t.Fatal("create campaign should emit CampaignCreated")
		}
		commit(state, ctx, want)
		created = append(created, want)
	}

	ctx := NewFakeKContext(state, testCreator, nil)
	resp, err := c.GetDeployedCampaigns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var addrs []string
	if err := json.Unmarshal(resp.Body, &addrs); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(addrs, created) {
		t.Fatal("deployed list assert failed", addrs)
	}

	ctx = NewFakeKContext(state, testCreator, map[string][]byte{ArgIndex: []byte("1")})
	resp, err = c.ListOfDeployedCampaignContracts(ctx)
	if err != nil || string(resp.Body) != created[1] {
		t.Fatal("list of deployed assert failed", err)
	}
	ctx = NewFakeKContext(state, testCreator, map[string][]byte{ArgIndex: []byte("2")})
	if _, err = c.ListOfDeployedCampaignContracts(ctx); !errors.Is(err, campaign.ErrInvalidParameters) {
		t.Fatal("index out of range should fail", err)
	}

	resp, err = c.GetDeployedCampaignsCount(NewFakeKContext(state, testCreator, nil))
	if err != nil || string(resp.Body) != "2" {
		t.Fatal("deployed count assert failed", err)
	}

	camp, err := campaign.Load(sandbox.NewReadOnlyCache(state), created[0])
	if err != nil {
		t.Fatal(err)
	}
	if camp.Manager != testCreator || camp.MinimumContribution.Int64() != 100 {
		t.Fatal("deployed campaign assert failed", camp)
	}
}

func TestCreateCampaignBadMinimum(t *testing.T) {
	m, _ := newFactoryForTest(t)
	state := sandbox.NewMemXModel()
	for _, minimum := range []string{"", "-1", "ten"} {
		ctx := NewFakeKContext(state, testCreator, map[string][]byte{ArgMinimum: []byte(minimum)})
		if _, err := m.Contract.CreateCampaignContract(ctx); !errors.Is(err, campaign.ErrInvalidParameters) {
			t.Errorf("minimum %q should fail: %v", minimum, err)
		}
	}

	resp, err := m.Contract.GetDeployedCampaigns(NewFakeKContext(state, testCreator, nil))
	if err != nil || string(resp.Body) != "[]" {
		t.Fatal("empty factory should list nothing", err)
	}
}
